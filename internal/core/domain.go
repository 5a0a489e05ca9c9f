package core

import (
	"errors"
	"strings"
	"time"
)

// Member lifecycle statuses. Members are never hard-deleted; a record moves
// between statuses instead.
const (
	StatusAlive    MemberStatus = "alive"
	StatusDeceased MemberStatus = "deceased"
	StatusVoid     MemberStatus = "void"
	StatusKicked   MemberStatus = "kicked"
)

// Categories for manual ledger entries.
const (
	CategoryElectricBill LedgerCategory = "electric_bill"
	CategoryWaterBill    LedgerCategory = "water_bill"
	CategoryMonthlyRent  LedgerCategory = "monthly_rent"
	CategoryInternet     LedgerCategory = "internet"
)

// Notification types emitted by the services layer.
const (
	NotifyPaymentDue       NotificationType = "payment_due"
	NotifyPaymentReceived  NotificationType = "payment_received"
	NotifyMemberRegistered NotificationType = "member_registered"
)

type (
	MemberStatus     string
	LedgerCategory   string
	NotificationType string

	// PSGCLocation carries Philippine Standard Geographic Code identifiers
	// together with their display names.
	PSGCLocation struct {
		RegionCode   string
		RegionName   string
		ProvinceCode string
		ProvinceName string
		CityCode     string
		CityName     string
		BarangayCode string
		BarangayName string
	}

	Member struct {
		ID                    int64
		FirstName             string
		LastName              string
		BirthDate             time.Time
		Phone                 string
		Program               string
		AgeBracket            string
		ContributionAmount    Money
		AvailmentPeriod       string
		Branch                string
		Status                MemberStatus
		MembershipFeePaid     bool
		MembershipFeeAmount   Money
		MembershipFeePaidDate time.Time
		// Cached copy of the latest billing schedule, refreshed on every
		// recorded payment. The source of truth is the payment history.
		LastPaymentDate time.Time
		NextPaymentDate time.Time
		Address         PSGCLocation
	}

	// Payment is immutable once recorded. TotalAmount includes the late fee
	// when one applied; it equals Amount otherwise.
	Payment struct {
		ID              int64
		MemberID        int64
		Amount          Money
		PaymentDate     time.Time
		ReferenceNumber string
		Notes           string
		PeriodStart     time.Time
		NextPayment     time.Time
		LateFeePercent  int
		TotalAmount     Money
	}

	// LedgerEntry is a manual bookkeeping row. AmountCents is signed:
	// positive for revenue, negative for expenses.
	LedgerEntry struct {
		ID          int64
		AmountCents int64
		Description string
		Category    LedgerCategory
		Date        time.Time
		Branch      string
		ReceiptPath string
	}

	// MembershipFee is the one-time fee view of a member used by revenue
	// aggregation.
	MembershipFee struct {
		MemberID int64
		Amount   Money
		PaidDate time.Time
	}

	// BarangayCount is an outreach counter keyed by barangay. It is adjusted
	// by signed deltas and is not tied to individual member rows.
	BarangayCount struct {
		Location    PSGCLocation
		MemberCount int
	}

	FieldWorker struct {
		ID             int64
		Name           string
		Age            int
		Branch         string
		TotalCollected Money
	}

	Notification struct {
		ID        int64
		Type      NotificationType
		Message   string
		Read      bool
		MemberID  int64 // zero when not linked to a member
		CreatedAt time.Time
		SentAt    time.Time // zero until the dispatch worker delivers it
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrZeroDate         = errors.New("date cannot be zero")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidStatus    = errors.New("invalid member status")
	ErrInvalidCategory  = errors.New("invalid ledger category")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyMessage     = errors.New("empty notification message")
	ErrEmptyBarangay    = errors.New("empty barangay code")
)

func (s MemberStatus) Valid() bool {
	switch s {
	case StatusAlive, StatusDeceased, StatusVoid, StatusKicked:
		return true
	default:
		return false
	}
}

func (c LedgerCategory) Valid() bool {
	switch c {
	case CategoryElectricBill, CategoryWaterBill, CategoryMonthlyRent, CategoryInternet:
		return true
	default:
		return false
	}
}

func (t NotificationType) Valid() bool {
	switch t {
	case NotifyPaymentDue, NotifyPaymentReceived, NotifyMemberRegistered:
		return true
	default:
		return false
	}
}

func (m Member) Validate() error {
	if strings.TrimSpace(m.FirstName) == "" || strings.TrimSpace(m.LastName) == "" {
		return ErrEmptyName
	}
	if !m.Status.Valid() {
		return ErrInvalidStatus
	}
	if m.ContributionAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if m.MembershipFeePaid {
		if err := m.MembershipFeeAmount.Validate(); err != nil {
			return err
		}
		if m.MembershipFeePaidDate.IsZero() {
			return ErrZeroDate
		}
	}
	return nil
}

// FullName returns the display name used in notification messages.
func (m Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

func (p Payment) Validate() error {
	if p.MemberID <= 0 {
		return errors.New("payment requires a member")
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if p.PaymentDate.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// EffectiveAmount is the amount a payment contributes to revenue: the total
// including late fee when present, the base amount otherwise.
func (p Payment) EffectiveAmount() Money {
	if p.TotalAmount.Cents > 0 {
		return p.TotalAmount
	}
	return p.Amount
}

func (e LedgerEntry) Validate() error {
	if e.AmountCents == 0 {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// IsExpense reports whether the entry reduces net revenue.
func (e LedgerEntry) IsExpense() bool {
	return e.AmountCents < 0
}

func (w FieldWorker) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrEmptyName
	}
	if w.Age < 0 {
		return errors.New("invalid age")
	}
	return nil
}

func (n Notification) Validate() error {
	if !n.Type.Valid() {
		return errors.New("invalid notification type")
	}
	if strings.TrimSpace(n.Message) == "" {
		return ErrEmptyMessage
	}
	return nil
}
