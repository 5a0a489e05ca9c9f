package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bafci/internal/core"
)

func TestRevenueSummary(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRevenueService(repo)
	ctx := context.Background()

	// Member with a paid membership fee of 500.00 inside the window.
	m := seedMember(t, repo)
	m.MembershipFeePaid = true
	m.MembershipFeeAmount = core.Money{Cents: 50000}
	m.MembershipFeePaidDate = time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	if err := repo.UpdateMember(ctx, m); err != nil {
		t.Fatal(err)
	}

	// Monthly payment totalling 550.00.
	if _, err := repo.CreatePayment(ctx, core.Payment{
		MemberID:        m.ID,
		Amount:          core.Money{Cents: 50000},
		TotalAmount:     core.Money{Cents: 55000},
		PaymentDate:     time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC),
		ReferenceNumber: "OR-1",
	}); err != nil {
		t.Fatal(err)
	}

	// Expense of 200.00.
	if _, err := svc.AddEntry(ctx, core.LedgerEntry{
		AmountCents: -20000,
		Description: "electric bill",
		Category:    core.CategoryElectricBill,
		Date:        time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatal(err)
	}

	w := core.Window{
		Start: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
	}
	sum, err := svc.Summary(ctx, w)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if sum.Expenses.Cents != 20000 {
		t.Errorf("Expenses = %d, want 20000", sum.Expenses.Cents)
	}
	if sum.MonthlyPayments.Cents != 55000 {
		t.Errorf("MonthlyPayments = %d, want 55000", sum.MonthlyPayments.Cents)
	}
	if sum.MembershipFees.Cents != 50000 {
		t.Errorf("MembershipFees = %d, want 50000", sum.MembershipFees.Cents)
	}
	if sum.GrossRevenue.Cents != 105000 {
		t.Errorf("GrossRevenue = %d, want 105000", sum.GrossRevenue.Cents)
	}
	if sum.NetRevenue.Cents != 85000 {
		t.Errorf("NetRevenue = %d, want 85000", sum.NetRevenue.Cents)
	}
}

func TestRevenueReportPercentChange(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRevenueService(repo)
	ctx := context.Background()
	m := seedMember(t, repo)

	// May: 100.00 in payments. June: 150.00.
	for _, p := range []core.Payment{
		{MemberID: m.ID, Amount: core.Money{Cents: 10000}, PaymentDate: time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC), ReferenceNumber: "OR-1"},
		{MemberID: m.ID, Amount: core.Money{Cents: 15000}, PaymentDate: time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), ReferenceNumber: "OR-2"},
	} {
		if _, err := repo.CreatePayment(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	june := core.PeriodMonthly.WindowAt(time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC))
	may := core.PeriodMonthly.PreviousWindowAt(time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC))

	report, err := svc.Report(ctx, june, may)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.GrossChangePct != 50 {
		t.Errorf("GrossChangePct = %v, want 50", report.GrossChangePct)
	}
	if report.NetChangePct != 50 {
		t.Errorf("NetChangePct = %v, want 50", report.NetChangePct)
	}
	if report.ExpenseChangePct != 0 {
		t.Errorf("ExpenseChangePct = %v, want 0 when both windows have none", report.ExpenseChangePct)
	}
}

func TestAddEntryValidation(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRevenueService(repo)

	_, err := svc.AddEntry(context.Background(), core.LedgerEntry{
		AmountCents: -1000,
		Description: "rent",
		Category:    "groceries",
		Date:        time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, core.ErrInvalidCategory) {
		t.Errorf("err = %v, want ErrInvalidCategory", err)
	}
}
