package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"bafci/internal/core"
)

const memberColumns = `id, first_name, last_name, birth_date, phone, program, age_bracket,
	contribution_cents, availment_period, branch, status,
	membership_fee_paid, membership_fee_cents, membership_fee_paid_date,
	last_payment_date, next_payment_date,
	region_code, region_name, province_code, province_name,
	city_code, city_name, barangay_code, barangay_name`

func scanMember(row interface{ Scan(...any) error }) (core.Member, error) {
	var (
		m                              core.Member
		birth, feePaidDate, last, next string
		feePaid                        int
	)
	err := row.Scan(
		&m.ID, &m.FirstName, &m.LastName, &birth, &m.Phone, &m.Program, &m.AgeBracket,
		&m.ContributionAmount.Cents, &m.AvailmentPeriod, &m.Branch, &m.Status,
		&feePaid, &m.MembershipFeeAmount.Cents, &feePaidDate,
		&last, &next,
		&m.Address.RegionCode, &m.Address.RegionName,
		&m.Address.ProvinceCode, &m.Address.ProvinceName,
		&m.Address.CityCode, &m.Address.CityName,
		&m.Address.BarangayCode, &m.Address.BarangayName,
	)
	if err != nil {
		return core.Member{}, err
	}
	m.BirthDate = parseDate(birth)
	m.MembershipFeePaid = feePaid != 0
	m.MembershipFeePaidDate = parseDate(feePaidDate)
	m.LastPaymentDate = parseDate(last)
	m.NextPaymentDate = parseDate(next)
	return m, nil
}

func (r *SQLiteRepository) CreateMember(ctx context.Context, m core.Member) (core.Member, error) {
	feePaid := 0
	if m.MembershipFeePaid {
		feePaid = 1
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO members (
			first_name, last_name, birth_date, phone, program, age_bracket,
			contribution_cents, availment_period, branch, status,
			membership_fee_paid, membership_fee_cents, membership_fee_paid_date,
			last_payment_date, next_payment_date,
			region_code, region_name, province_code, province_name,
			city_code, city_name, barangay_code, barangay_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.FirstName, m.LastName, formatDate(m.BirthDate), m.Phone, m.Program, m.AgeBracket,
		m.ContributionAmount.Cents, m.AvailmentPeriod, m.Branch, string(m.Status),
		feePaid, m.MembershipFeeAmount.Cents, formatDate(m.MembershipFeePaidDate),
		formatDate(m.LastPaymentDate), formatDate(m.NextPaymentDate),
		m.Address.RegionCode, m.Address.RegionName,
		m.Address.ProvinceCode, m.Address.ProvinceName,
		m.Address.CityCode, m.Address.CityName,
		m.Address.BarangayCode, m.Address.BarangayName,
	)
	if err != nil {
		return core.Member{}, fmt.Errorf("insert member: %w", err)
	}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return core.Member{}, fmt.Errorf("member insert id: %w", err)
	}

	slog.InfoContext(ctx, "Member created",
		"id", m.ID,
		"name", m.FullName(),
		"barangay", m.Address.BarangayName)
	return m, nil
}

func (r *SQLiteRepository) GetMember(ctx context.Context, id int64) (core.Member, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = ?`, id)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return core.Member{}, ErrNotFound
	}
	if err != nil {
		return core.Member{}, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// ListMembers returns members ordered by last name. An empty status matches
// every record.
func (r *SQLiteRepository) ListMembers(ctx context.Context, status core.MemberStatus) ([]core.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY last_name, first_name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []core.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *SQLiteRepository) UpdateMember(ctx context.Context, m core.Member) error {
	feePaid := 0
	if m.MembershipFeePaid {
		feePaid = 1
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE members SET
			first_name = ?, last_name = ?, birth_date = ?, phone = ?, program = ?,
			age_bracket = ?, contribution_cents = ?, availment_period = ?, branch = ?,
			status = ?, membership_fee_paid = ?, membership_fee_cents = ?,
			membership_fee_paid_date = ?,
			region_code = ?, region_name = ?, province_code = ?, province_name = ?,
			city_code = ?, city_name = ?, barangay_code = ?, barangay_name = ?,
			updated_at = datetime('now')
		WHERE id = ?`,
		m.FirstName, m.LastName, formatDate(m.BirthDate), m.Phone, m.Program,
		m.AgeBracket, m.ContributionAmount.Cents, m.AvailmentPeriod, m.Branch,
		string(m.Status), feePaid, m.MembershipFeeAmount.Cents,
		formatDate(m.MembershipFeePaidDate),
		m.Address.RegionCode, m.Address.RegionName,
		m.Address.ProvinceCode, m.Address.ProvinceName,
		m.Address.CityCode, m.Address.CityName,
		m.Address.BarangayCode, m.Address.BarangayName,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update member rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) UpdateMemberStatus(ctx context.Context, id int64, status core.MemberStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE members SET status = ?, updated_at = datetime('now') WHERE id = ?`,
		string(status), id)
	if err != nil {
		return fmt.Errorf("update member status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update member status rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Member status changed", "id", id, "status", status)
	return nil
}

// UpdateMemberSchedule refreshes the cached billing schedule after a payment
// is recorded.
func (r *SQLiteRepository) UpdateMemberSchedule(ctx context.Context, id int64, last, next time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE members SET last_payment_date = ?, next_payment_date = ?, updated_at = datetime('now') WHERE id = ?`,
		formatDate(last), formatDate(next), id)
	if err != nil {
		return fmt.Errorf("update member schedule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update member schedule rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListMembershipFeesInWindow returns the one-time membership fees paid inside
// the window, for revenue aggregation.
func (r *SQLiteRepository) ListMembershipFeesInWindow(ctx context.Context, start, end time.Time) ([]core.MembershipFee, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, membership_fee_cents, membership_fee_paid_date
		FROM members
		WHERE membership_fee_paid = 1
		  AND membership_fee_paid_date >= ? AND membership_fee_paid_date <= ?`,
		formatDate(start), formatDate(end))
	if err != nil {
		return nil, fmt.Errorf("list membership fees: %w", err)
	}
	defer rows.Close()

	var fees []core.MembershipFee
	for rows.Next() {
		var (
			f    core.MembershipFee
			paid string
		)
		if err := rows.Scan(&f.MemberID, &f.Amount.Cents, &paid); err != nil {
			return nil, fmt.Errorf("scan membership fee: %w", err)
		}
		f.PaidDate = parseDate(paid)
		fees = append(fees, f)
	}
	return fees, rows.Err()
}
