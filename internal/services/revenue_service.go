package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"bafci/internal/core"
	"bafci/internal/storage"
)

// RevenueService aggregates the three revenue sources over date windows.
type RevenueService struct {
	storage *storage.SQLiteRepository
}

func NewRevenueService(storage *storage.SQLiteRepository) *RevenueService {
	return &RevenueService{storage: storage}
}

// AddEntry records a manual ledger row.
func (s *RevenueService) AddEntry(ctx context.Context, e core.LedgerEntry) (core.LedgerEntry, error) {
	if err := e.Validate(); err != nil {
		return core.LedgerEntry{}, err
	}
	return s.storage.CreateLedgerEntry(ctx, e)
}

func (s *RevenueService) Entries(ctx context.Context, w core.Window) ([]core.LedgerEntry, error) {
	return s.storage.ListLedgerEntriesInWindow(ctx, w.Start, w.End)
}

// Summary fetches ledger entries, payments, and membership fees for the
// window concurrently and folds them into one summary.
func (s *RevenueService) Summary(ctx context.Context, w core.Window) (core.RevenueSummary, error) {
	var (
		ledger   []core.LedgerEntry
		payments []core.Payment
		fees     []core.MembershipFee
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ledger, err = s.storage.ListLedgerEntriesInWindow(gctx, w.Start, w.End)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.storage.ListPaymentsInWindow(gctx, w.Start, w.End)
		return err
	})
	g.Go(func() error {
		var err error
		fees, err = s.storage.ListMembershipFeesInWindow(gctx, w.Start, w.End)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.RevenueSummary{}, fmt.Errorf("fetch revenue sources: %w", err)
	}

	return core.Summarize(w, ledger, payments, fees), nil
}

// Report compares the window against the preceding one of equal meaning.
type Report struct {
	Window           core.Window
	Current          core.RevenueSummary
	Previous         core.RevenueSummary
	NetChangePct     float64
	GrossChangePct   float64
	ExpenseChangePct float64
}

func (s *RevenueService) Report(ctx context.Context, current, previous core.Window) (Report, error) {
	cur, err := s.Summary(ctx, current)
	if err != nil {
		return Report{}, err
	}
	prev, err := s.Summary(ctx, previous)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Window:           current,
		Current:          cur,
		Previous:         prev,
		NetChangePct:     core.PercentChange(cur.NetRevenue.Cents, prev.NetRevenue.Cents),
		GrossChangePct:   core.PercentChange(cur.GrossRevenue.Cents, prev.GrossRevenue.Cents),
		ExpenseChangePct: core.PercentChange(cur.Expenses.Cents, prev.Expenses.Cents),
	}, nil
}
