package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bafci/internal/amqp"
	"bafci/internal/core"
	"bafci/internal/storage"
)

// PaymentService records monthly contributions, applies the late-fee rule,
// and keeps the member's cached schedule in step with the payment history.
type PaymentService struct {
	storage        *storage.SQLiteRepository
	amqpClient     *amqp.Client
	lateFeePercent int
}

func NewPaymentService(storage *storage.SQLiteRepository, amqpClient *amqp.Client, lateFeePercent int) *PaymentService {
	return &PaymentService{
		storage:        storage,
		amqpClient:     amqpClient,
		lateFeePercent: core.NormalizeLateFeePercent(lateFeePercent),
	}
}

// PaymentRequest is the input for recording a payment. Date defaults to
// today, the reference number to a generated uuid.
type PaymentRequest struct {
	MemberID        int64
	Amount          core.Money
	Date            time.Time
	ReferenceNumber string
	Notes           string
	FieldWorkerID   int64
}

// RecordPayment validates and persists a payment, then emits a
// payment_received notification. Payments are only accepted for alive
// members.
func (s *PaymentService) RecordPayment(ctx context.Context, req PaymentRequest) (core.Payment, error) {
	member, err := s.storage.GetMember(ctx, req.MemberID)
	if err != nil {
		return core.Payment{}, err
	}
	if member.Status != core.StatusAlive {
		return core.Payment{}, ErrMemberInactive
	}
	if err := req.Amount.Validate(); err != nil {
		return core.Payment{}, err
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}
	periodStart := core.DateOnly(date)
	next := core.AddCalendarMonth(periodStart)

	ref := strings.TrimSpace(req.ReferenceNumber)
	if ref == "" {
		ref = uuid.New().String()
	}

	pct, total := core.ApplyLateFee(req.Amount, date, s.lateFeePercent)

	payment := core.Payment{
		MemberID:        member.ID,
		Amount:          req.Amount,
		PaymentDate:     periodStart,
		ReferenceNumber: ref,
		Notes:           req.Notes,
		PeriodStart:     periodStart,
		NextPayment:     next,
		LateFeePercent:  pct,
		TotalAmount:     total,
	}

	created, err := s.storage.CreatePayment(ctx, payment)
	if err != nil {
		return core.Payment{}, err
	}

	if err := s.storage.UpdateMemberSchedule(ctx, member.ID, periodStart, next); err != nil {
		return core.Payment{}, fmt.Errorf("update member schedule: %w", err)
	}

	if req.FieldWorkerID > 0 {
		if err := s.storage.AddFieldWorkerCollection(ctx, req.FieldWorkerID, total); err != nil {
			return core.Payment{}, fmt.Errorf("credit field worker: %w", err)
		}
	}

	_, err = createAndPublish(ctx, s.storage, s.amqpClient, core.Notification{
		Type:     core.NotifyPaymentReceived,
		Message:  fmt.Sprintf("Payment of PHP %.2f received from %s", total.Pesos(), member.FullName()),
		MemberID: member.ID,
	}, member.Phone)
	if err != nil {
		return created, nil // payment is recorded, notification failure is not fatal
	}

	return created, nil
}

// History returns a member's payments, newest first.
func (s *PaymentService) History(ctx context.Context, memberID int64) ([]core.Payment, error) {
	if _, err := s.storage.GetMember(ctx, memberID); err != nil {
		return nil, err
	}
	return s.storage.ListPaymentsByMember(ctx, memberID)
}

// MemberSchedule is the billing state derived from a member's history.
type MemberSchedule struct {
	PeriodStart time.Time
	NextPayment time.Time
	HasPayments bool
	Overdue     bool
}

// ScheduleFor computes the current billing schedule from the payment
// history. The member row's cached dates are not consulted.
func (s *PaymentService) ScheduleFor(ctx context.Context, memberID int64, now time.Time) (MemberSchedule, error) {
	if _, err := s.storage.GetMember(ctx, memberID); err != nil {
		return MemberSchedule{}, err
	}
	history, err := s.storage.ListPaymentsByMember(ctx, memberID)
	if err != nil {
		return MemberSchedule{}, err
	}

	sched := core.ScheduleFromHistory(history)
	return MemberSchedule{
		PeriodStart: sched.PeriodStart,
		NextPayment: sched.NextPayment,
		HasPayments: sched.HasPayments(),
		Overdue:     sched.IsOverdue(now),
	}, nil
}
