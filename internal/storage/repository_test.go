package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"bafci/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testMember() core.Member {
	return core.Member{
		FirstName:          "Maria",
		LastName:           "Santos",
		BirthDate:          time.Date(1985, time.April, 12, 0, 0, 0, 0, time.UTC),
		Phone:              "+639171234567",
		Program:            "standard",
		ContributionAmount: core.Money{Cents: 50000},
		Branch:             "main",
		Status:             core.StatusAlive,
		Address: core.PSGCLocation{
			BarangayCode: "137404001",
			BarangayName: "Bagong Silang",
			CityCode:     "137404",
			CityName:     "Caloocan",
		},
	}
}

func TestMemberRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateMember(ctx, testMember())
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}

	got, err := repo.GetMember(ctx, created.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if got.FullName() != "Maria Santos" {
		t.Errorf("FullName = %q, want %q", got.FullName(), "Maria Santos")
	}
	if got.ContributionAmount.Cents != 50000 {
		t.Errorf("ContributionAmount = %d, want 50000", got.ContributionAmount.Cents)
	}
	if !got.BirthDate.Equal(time.Date(1985, time.April, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("BirthDate = %v", got.BirthDate)
	}
	if got.Address.BarangayName != "Bagong Silang" {
		t.Errorf("BarangayName = %q", got.Address.BarangayName)
	}
	if got.LastPaymentDate.IsZero() != true {
		t.Error("new member should have no payment dates")
	}
}

func TestGetMemberNotFound(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.GetMember(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListMembersStatusFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alive := testMember()
	if _, err := repo.CreateMember(ctx, alive); err != nil {
		t.Fatal(err)
	}
	dead := testMember()
	dead.FirstName = "Jose"
	dead.Status = core.StatusDeceased
	if _, err := repo.CreateMember(ctx, dead); err != nil {
		t.Fatal(err)
	}

	all, err := repo.ListMembers(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("all members = %d, want 2", len(all))
	}

	living, err := repo.ListMembers(ctx, core.StatusAlive)
	if err != nil {
		t.Fatal(err)
	}
	if len(living) != 1 || living[0].FirstName != "Maria" {
		t.Errorf("alive filter returned %d members", len(living))
	}
}

func TestUpdateMemberStatus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	m, err := repo.CreateMember(ctx, testMember())
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.UpdateMemberStatus(ctx, m.ID, core.StatusKicked); err != nil {
		t.Fatalf("update status: %v", err)
	}
	got, err := repo.GetMember(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != core.StatusKicked {
		t.Errorf("status = %s, want kicked", got.Status)
	}

	if err := repo.UpdateMemberStatus(ctx, 999, core.StatusVoid); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing member err = %v, want ErrNotFound", err)
	}
}

func TestPaymentLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	m, err := repo.CreateMember(ctx, testMember())
	if err != nil {
		t.Fatal(err)
	}

	p1 := core.Payment{
		MemberID:        m.ID,
		Amount:          core.Money{Cents: 50000},
		PaymentDate:     time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC),
		ReferenceNumber: "REF-001",
		PeriodStart:     time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC),
		NextPayment:     time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount:     core.Money{Cents: 50000},
	}
	if _, err := repo.CreatePayment(ctx, p1); err != nil {
		t.Fatalf("create payment: %v", err)
	}

	p2 := p1
	p2.ReferenceNumber = "REF-002"
	p2.PaymentDate = time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC)
	p2.LateFeePercent = 15
	p2.TotalAmount = core.Money{Cents: 57500}
	if _, err := repo.CreatePayment(ctx, p2); err != nil {
		t.Fatalf("create second payment: %v", err)
	}

	// Duplicate reference numbers are rejected.
	dup := p1
	dup.PaymentDate = time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	if _, err := repo.CreatePayment(ctx, dup); !errors.Is(err, ErrDuplicateReference) {
		t.Errorf("duplicate reference err = %v, want ErrDuplicateReference", err)
	}

	history, err := repo.ListPaymentsByMember(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].ReferenceNumber != "REF-002" {
		t.Errorf("history[0] = %s, want newest first", history[0].ReferenceNumber)
	}
	if history[0].LateFeePercent != 15 || history[0].TotalAmount.Cents != 57500 {
		t.Errorf("late fee fields lost: pct=%d total=%d", history[0].LateFeePercent, history[0].TotalAmount.Cents)
	}

	june, err := repo.ListPaymentsInWindow(ctx,
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(june) != 1 || june[0].ReferenceNumber != "REF-002" {
		t.Errorf("june window returned %d payments", len(june))
	}
}

func TestPendingSync(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	m, err := repo.CreateMember(ctx, testMember())
	if err != nil {
		t.Fatal(err)
	}
	p := core.Payment{
		MemberID:        m.ID,
		Amount:          core.Money{Cents: 50000},
		PaymentDate:     time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC),
		ReferenceNumber: "REF-SYNC",
	}
	created, err := repo.CreatePayment(ctx, p)
	if err != nil {
		t.Fatal(err)
	}

	pending, err := repo.GetPendingSyncPayments(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}

	if err := repo.MarkPaymentSynced(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	pending, err = repo.GetPendingSyncPayments(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after sync = %d, want 0", len(pending))
	}
}

func TestBarangayCountClampsAtZero(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	loc := testMember().Address

	c, err := repo.AdjustBarangayCount(ctx, loc, 3)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if c.MemberCount != 3 {
		t.Errorf("count = %d, want 3", c.MemberCount)
	}

	c, err = repo.AdjustBarangayCount(ctx, loc, -5)
	if err != nil {
		t.Fatalf("adjust below zero: %v", err)
	}
	if c.MemberCount != 0 {
		t.Errorf("count = %d, want clamp at 0", c.MemberCount)
	}

	// A fresh barangay starting with a negative delta also clamps.
	other := loc
	other.BarangayCode = "137404002"
	c, err = repo.AdjustBarangayCount(ctx, other, -2)
	if err != nil {
		t.Fatal(err)
	}
	if c.MemberCount != 0 {
		t.Errorf("fresh negative count = %d, want 0", c.MemberCount)
	}

	if _, err := repo.AdjustBarangayCount(ctx, core.PSGCLocation{}, 1); !errors.Is(err, core.ErrEmptyBarangay) {
		t.Errorf("empty code err = %v, want ErrEmptyBarangay", err)
	}
}

func TestNotifications(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	n, err := repo.CreateNotification(ctx, core.Notification{
		Type:     core.NotifyPaymentDue,
		Message:  "Maria Santos has a payment due",
		MemberID: 1,
	})
	if err != nil {
		t.Fatalf("create notification: %v", err)
	}

	unread, err := repo.ListNotifications(ctx, true, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(unread) != 1 || unread[0].Read {
		t.Fatalf("unread = %d", len(unread))
	}

	if err := repo.MarkNotificationRead(ctx, n.ID); err != nil {
		t.Fatal(err)
	}
	unread, err = repo.ListNotifications(ctx, true, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(unread) != 0 {
		t.Errorf("unread after mark = %d, want 0", len(unread))
	}

	all, err := repo.ListNotifications(ctx, false, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("all = %d, want 1", len(all))
	}

	seen, err := repo.HasNotificationSince(ctx, 1, core.NotifyPaymentDue, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if !seen {
		t.Error("expected recent notification to be found")
	}
	seen, err = repo.HasNotificationSince(ctx, 1, core.NotifyPaymentDue, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if seen {
		t.Error("future cutoff should find nothing")
	}
}

func TestMarkNotificationSent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	n, err := repo.CreateNotification(ctx, core.Notification{
		Type:    core.NotifyPaymentReceived,
		Message: "payment received",
	})
	if err != nil {
		t.Fatal(err)
	}
	sentAt := time.Date(2025, time.June, 1, 8, 30, 0, 0, time.UTC)
	if err := repo.MarkNotificationSent(ctx, n.ID, sentAt); err != nil {
		t.Fatal(err)
	}

	all, err := repo.ListNotifications(ctx, false, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || !all[0].SentAt.Equal(sentAt) {
		t.Errorf("SentAt = %v, want %v", all[0].SentAt, sentAt)
	}
}

func TestFieldWorkerCollection(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	w, err := repo.CreateFieldWorker(ctx, core.FieldWorker{Name: "Pedro Reyes", Age: 34, Branch: "main"})
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.AddFieldWorkerCollection(ctx, w.ID, core.Money{Cents: 25000}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AddFieldWorkerCollection(ctx, w.ID, core.Money{Cents: 10000}); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetFieldWorker(ctx, w.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalCollected.Cents != 35000 {
		t.Errorf("TotalCollected = %d, want 35000", got.TotalCollected.Cents)
	}

	if err := repo.AddFieldWorkerCollection(ctx, 999, core.Money{Cents: 100}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing worker err = %v, want ErrNotFound", err)
	}
}

func TestLedgerWindow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entries := []core.LedgerEntry{
		{AmountCents: -20000, Description: "electric", Category: core.CategoryElectricBill, Date: time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)},
		{AmountCents: -15000, Description: "water", Category: core.CategoryWaterBill, Date: time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, e := range entries {
		if _, err := repo.CreateLedgerEntry(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	june, err := repo.ListLedgerEntriesInWindow(ctx,
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(june) != 1 || june[0].Description != "electric" {
		t.Errorf("june entries = %d", len(june))
	}
}

func TestMembershipFeesInWindow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	m := testMember()
	m.MembershipFeePaid = true
	m.MembershipFeeAmount = core.Money{Cents: 50000}
	m.MembershipFeePaidDate = time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	if _, err := repo.CreateMember(ctx, m); err != nil {
		t.Fatal(err)
	}

	unpaid := testMember()
	unpaid.FirstName = "Jose"
	if _, err := repo.CreateMember(ctx, unpaid); err != nil {
		t.Fatal(err)
	}

	fees, err := repo.ListMembershipFeesInWindow(ctx,
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(fees) != 1 || fees[0].Amount.Cents != 50000 {
		t.Errorf("fees = %+v, want one 50000 fee", fees)
	}
}

func TestUpdateMemberSchedule(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	m, err := repo.CreateMember(ctx, testMember())
	if err != nil {
		t.Fatal(err)
	}
	last := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)
	next := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	if err := repo.UpdateMemberSchedule(ctx, m.ID, last, next); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetMember(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.LastPaymentDate.Equal(last) || !got.NextPaymentDate.Equal(next) {
		t.Errorf("schedule = (%v, %v), want (%v, %v)", got.LastPaymentDate, got.NextPaymentDate, last, next)
	}
}
