package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"bafci/internal/core"
	"bafci/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedMember(t *testing.T, repo *storage.SQLiteRepository) core.Member {
	t.Helper()
	m, err := repo.CreateMember(context.Background(), core.Member{
		FirstName:          "Maria",
		LastName:           "Santos",
		Phone:              "+639171234567",
		ContributionAmount: core.Money{Cents: 50000},
		Status:             core.StatusAlive,
		Address: core.PSGCLocation{
			BarangayCode: "137404001",
			BarangayName: "Bagong Silang",
		},
	})
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return m
}

func TestRecordPaymentOnTime(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewPaymentService(repo, nil, 15)
	ctx := context.Background()
	member := seedMember(t, repo)

	p, err := svc.RecordPayment(ctx, PaymentRequest{
		MemberID: member.ID,
		Amount:   core.Money{Cents: 50000},
		Date:     time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}

	if p.LateFeePercent != 0 {
		t.Errorf("LateFeePercent = %d, want 0 on day 5", p.LateFeePercent)
	}
	if p.TotalAmount.Cents != 50000 {
		t.Errorf("TotalAmount = %d, want base amount", p.TotalAmount.Cents)
	}
	if p.ReferenceNumber == "" {
		t.Error("reference number should be generated when absent")
	}
	if !p.NextPayment.Equal(time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("NextPayment = %v, want 2025-07-05", p.NextPayment)
	}

	// Cached schedule on the member row follows the payment.
	got, err := repo.GetMember(ctx, member.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.LastPaymentDate.Equal(p.PeriodStart) || !got.NextPaymentDate.Equal(p.NextPayment) {
		t.Errorf("cached schedule = (%v, %v)", got.LastPaymentDate, got.NextPaymentDate)
	}

	// A payment_received notification lands in the inbox.
	notifs, err := repo.ListNotifications(ctx, true, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(notifs) != 1 || notifs[0].Type != core.NotifyPaymentReceived {
		t.Errorf("notifications = %+v, want one payment_received", notifs)
	}
}

func TestRecordPaymentLate(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewPaymentService(repo, nil, 25)
	member := seedMember(t, repo)

	p, err := svc.RecordPayment(context.Background(), PaymentRequest{
		MemberID: member.ID,
		Amount:   core.Money{Cents: 50000},
		Date:     time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if p.LateFeePercent != 25 {
		t.Errorf("LateFeePercent = %d, want 25 on day 6", p.LateFeePercent)
	}
	if p.TotalAmount.Cents != 62500 {
		t.Errorf("TotalAmount = %d, want 62500", p.TotalAmount.Cents)
	}
}

func TestRecordPaymentRejectsInactiveMember(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewPaymentService(repo, nil, 15)
	ctx := context.Background()
	member := seedMember(t, repo)
	if err := repo.UpdateMemberStatus(ctx, member.ID, core.StatusDeceased); err != nil {
		t.Fatal(err)
	}

	_, err := svc.RecordPayment(ctx, PaymentRequest{
		MemberID: member.ID,
		Amount:   core.Money{Cents: 50000},
	})
	if !errors.Is(err, ErrMemberInactive) {
		t.Errorf("err = %v, want ErrMemberInactive", err)
	}
}

func TestRecordPaymentUnknownMember(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewPaymentService(repo, nil, 15)

	_, err := svc.RecordPayment(context.Background(), PaymentRequest{
		MemberID: 999,
		Amount:   core.Money{Cents: 50000},
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRecordPaymentDuplicateReference(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewPaymentService(repo, nil, 15)
	ctx := context.Background()
	member := seedMember(t, repo)

	req := PaymentRequest{
		MemberID:        member.ID,
		Amount:          core.Money{Cents: 50000},
		Date:            time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC),
		ReferenceNumber: "OR-1001",
	}
	if _, err := svc.RecordPayment(ctx, req); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RecordPayment(ctx, req); !errors.Is(err, storage.ErrDuplicateReference) {
		t.Errorf("err = %v, want ErrDuplicateReference", err)
	}
}

func TestRecordPaymentCreditsFieldWorker(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewPaymentService(repo, nil, 15)
	ctx := context.Background()
	member := seedMember(t, repo)

	worker, err := repo.CreateFieldWorker(ctx, core.FieldWorker{Name: "Pedro Reyes", Branch: "main"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.RecordPayment(ctx, PaymentRequest{
		MemberID:      member.ID,
		Amount:        core.Money{Cents: 50000},
		Date:          time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC),
		FieldWorkerID: worker.ID,
	}); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetFieldWorker(ctx, worker.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalCollected.Cents != 50000 {
		t.Errorf("TotalCollected = %d, want 50000", got.TotalCollected.Cents)
	}
}

func TestScheduleFor(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewPaymentService(repo, nil, 15)
	ctx := context.Background()
	member := seedMember(t, repo)

	now := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)

	sched, err := svc.ScheduleFor(ctx, member.ID, now)
	if err != nil {
		t.Fatal(err)
	}
	if sched.HasPayments || !sched.Overdue {
		t.Errorf("fresh member schedule = %+v, want overdue with no payments", sched)
	}

	if _, err := svc.RecordPayment(ctx, PaymentRequest{
		MemberID: member.ID,
		Amount:   core.Money{Cents: 50000},
		Date:     time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatal(err)
	}

	sched, err = svc.ScheduleFor(ctx, member.ID, now)
	if err != nil {
		t.Fatal(err)
	}
	if !sched.HasPayments || sched.Overdue {
		t.Errorf("paid member schedule = %+v, want current", sched)
	}
	if !sched.NextPayment.Equal(time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("NextPayment = %v", sched.NextPayment)
	}
}
