package storage

import (
	"context"
	"fmt"
	"log/slog"

	"bafci/internal/core"
)

// AdjustBarangayCount applies a signed delta to a barangay's outreach counter
// and returns the resulting row. The counter never goes below zero: a delta
// that would cross it clamps to zero instead of failing.
func (r *SQLiteRepository) AdjustBarangayCount(ctx context.Context, loc core.PSGCLocation, delta int) (core.BarangayCount, error) {
	if loc.BarangayCode == "" {
		return core.BarangayCount{}, core.ErrEmptyBarangay
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO barangay_member_counts (
			barangay_code, barangay_name, city_code, city_name,
			province_code, province_name, region_code, region_name, member_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, MAX(0, ?))
		ON CONFLICT(barangay_code) DO UPDATE SET
			member_count = MAX(0, member_count + ?),
			barangay_name = excluded.barangay_name,
			city_code = excluded.city_code,
			city_name = excluded.city_name,
			province_code = excluded.province_code,
			province_name = excluded.province_name,
			region_code = excluded.region_code,
			region_name = excluded.region_name`,
		loc.BarangayCode, loc.BarangayName, loc.CityCode, loc.CityName,
		loc.ProvinceCode, loc.ProvinceName, loc.RegionCode, loc.RegionName,
		delta, delta,
	)
	if err != nil {
		return core.BarangayCount{}, fmt.Errorf("adjust barangay count: %w", err)
	}

	count, err := r.GetBarangayCount(ctx, loc.BarangayCode)
	if err != nil {
		return core.BarangayCount{}, err
	}

	slog.InfoContext(ctx, "Barangay count adjusted",
		"barangay", loc.BarangayName,
		"delta", delta,
		"count", count.MemberCount)
	return count, nil
}

func (r *SQLiteRepository) GetBarangayCount(ctx context.Context, barangayCode string) (core.BarangayCount, error) {
	var c core.BarangayCount
	err := r.db.QueryRowContext(ctx, `
		SELECT barangay_code, barangay_name, city_code, city_name,
		       province_code, province_name, region_code, region_name, member_count
		FROM barangay_member_counts WHERE barangay_code = ?`,
		barangayCode).Scan(
		&c.Location.BarangayCode, &c.Location.BarangayName,
		&c.Location.CityCode, &c.Location.CityName,
		&c.Location.ProvinceCode, &c.Location.ProvinceName,
		&c.Location.RegionCode, &c.Location.RegionName,
		&c.MemberCount,
	)
	if err != nil {
		return core.BarangayCount{}, fmt.Errorf("get barangay count: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListBarangayCounts(ctx context.Context) ([]core.BarangayCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT barangay_code, barangay_name, city_code, city_name,
		       province_code, province_name, region_code, region_name, member_count
		FROM barangay_member_counts
		ORDER BY barangay_name`)
	if err != nil {
		return nil, fmt.Errorf("list barangay counts: %w", err)
	}
	defer rows.Close()

	var counts []core.BarangayCount
	for rows.Next() {
		var c core.BarangayCount
		if err := rows.Scan(
			&c.Location.BarangayCode, &c.Location.BarangayName,
			&c.Location.CityCode, &c.Location.CityName,
			&c.Location.ProvinceCode, &c.Location.ProvinceName,
			&c.Location.RegionCode, &c.Location.RegionName,
			&c.MemberCount,
		); err != nil {
			return nil, fmt.Errorf("scan barangay count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
