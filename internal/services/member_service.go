package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bafci/internal/amqp"
	"bafci/internal/core"
	"bafci/internal/storage"
)

var ErrMemberInactive = errors.New("member is not active")

// MemberService orchestrates member lifecycle operations across SQLite and
// the notification queue.
type MemberService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewMemberService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *MemberService {
	return &MemberService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// Register creates a member, bumps the barangay outreach counter, and emits
// a member_registered notification.
func (s *MemberService) Register(ctx context.Context, m core.Member) (core.Member, error) {
	if m.Status == "" {
		m.Status = core.StatusAlive
	}
	if err := m.Validate(); err != nil {
		return core.Member{}, err
	}

	created, err := s.storage.CreateMember(ctx, m)
	if err != nil {
		return core.Member{}, fmt.Errorf("register member: %w", err)
	}

	if created.Address.BarangayCode != "" {
		if _, err := s.storage.AdjustBarangayCount(ctx, created.Address, 1); err != nil {
			slog.ErrorContext(ctx, "Failed to bump barangay count",
				"member_id", created.ID,
				"barangay", created.Address.BarangayCode,
				"error", err)
		}
	}

	_, err = createAndPublish(ctx, s.storage, s.amqpClient, core.Notification{
		Type:     core.NotifyMemberRegistered,
		Message:  fmt.Sprintf("%s registered as a new member", created.FullName()),
		MemberID: created.ID,
	}, created.Phone)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create registration notification",
			"member_id", created.ID, "error", err)
	}

	return created, nil
}

func (s *MemberService) Get(ctx context.Context, id int64) (core.Member, error) {
	return s.storage.GetMember(ctx, id)
}

func (s *MemberService) List(ctx context.Context, status core.MemberStatus) ([]core.Member, error) {
	if status != "" && !status.Valid() {
		return nil, core.ErrInvalidStatus
	}
	return s.storage.ListMembers(ctx, status)
}

// Update replaces a member's editable fields. The cached payment schedule is
// not touched here; it belongs to the payment flow.
func (s *MemberService) Update(ctx context.Context, m core.Member) (core.Member, error) {
	if err := m.Validate(); err != nil {
		return core.Member{}, err
	}
	if err := s.storage.UpdateMember(ctx, m); err != nil {
		return core.Member{}, err
	}
	return s.storage.GetMember(ctx, m.ID)
}

// ChangeStatus moves a member between lifecycle statuses. Leaving the alive
// status releases the member's slot in the barangay counter; returning to it
// takes the slot back.
func (s *MemberService) ChangeStatus(ctx context.Context, id int64, status core.MemberStatus) (core.Member, error) {
	if !status.Valid() {
		return core.Member{}, core.ErrInvalidStatus
	}

	member, err := s.storage.GetMember(ctx, id)
	if err != nil {
		return core.Member{}, err
	}
	if member.Status == status {
		return member, nil
	}

	if err := s.storage.UpdateMemberStatus(ctx, id, status); err != nil {
		return core.Member{}, err
	}

	if member.Address.BarangayCode != "" {
		var delta int
		switch {
		case member.Status == core.StatusAlive && status != core.StatusAlive:
			delta = -1
		case member.Status != core.StatusAlive && status == core.StatusAlive:
			delta = 1
		}
		if delta != 0 {
			if _, err := s.storage.AdjustBarangayCount(ctx, member.Address, delta); err != nil {
				slog.ErrorContext(ctx, "Failed to adjust barangay count on status change",
					"member_id", id, "delta", delta, "error", err)
			}
		}
	}

	member.Status = status
	return member, nil
}

// RecordMembershipFee marks the one-time membership fee as paid.
func (s *MemberService) RecordMembershipFee(ctx context.Context, id int64, amount core.Money, paidDate time.Time) (core.Member, error) {
	if err := amount.Validate(); err != nil {
		return core.Member{}, err
	}
	if paidDate.IsZero() {
		paidDate = core.DateOnly(time.Now())
	}

	member, err := s.storage.GetMember(ctx, id)
	if err != nil {
		return core.Member{}, err
	}

	member.MembershipFeePaid = true
	member.MembershipFeeAmount = amount
	member.MembershipFeePaidDate = core.DateOnly(paidDate)

	if err := s.storage.UpdateMember(ctx, member); err != nil {
		return core.Member{}, err
	}
	return member, nil
}
