package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bafci/internal/core"
	"bafci/internal/services"
	"bafci/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// validationErrs are domain errors reported as 422 with their own message.
var validationErrs = []error{
	core.ErrInvalidAmount,
	core.ErrZeroDate,
	core.ErrEmptyName,
	core.ErrInvalidStatus,
	core.ErrInvalidCategory,
	core.ErrEmptyDescription,
	core.ErrEmptyMessage,
	core.ErrEmptyBarangay,
	services.ErrMemberInactive,
}

// respondError maps service and storage errors onto the API status codes.
// Unknown errors become an opaque 500; the detail goes to the log only.
func respondError(r *http.Request, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found")
		return
	case errors.Is(err, storage.ErrDuplicateReference):
		writeError(w, http.StatusConflict, "duplicate reference number")
		return
	}

	for _, v := range validationErrs {
		if errors.Is(err, v) {
			writeError(w, http.StatusUnprocessableEntity, v.Error())
			return
		}
	}

	slog.ErrorContext(r.Context(), "Request failed",
		"method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func fmtTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

type addressResponse struct {
	RegionCode   string `json:"region_code,omitempty"`
	RegionName   string `json:"region_name,omitempty"`
	ProvinceCode string `json:"province_code,omitempty"`
	ProvinceName string `json:"province_name,omitempty"`
	CityCode     string `json:"city_code,omitempty"`
	CityName     string `json:"city_name,omitempty"`
	BarangayCode string `json:"barangay_code,omitempty"`
	BarangayName string `json:"barangay_name,omitempty"`
}

func newAddressResponse(loc core.PSGCLocation) addressResponse {
	return addressResponse{
		RegionCode:   loc.RegionCode,
		RegionName:   loc.RegionName,
		ProvinceCode: loc.ProvinceCode,
		ProvinceName: loc.ProvinceName,
		CityCode:     loc.CityCode,
		CityName:     loc.CityName,
		BarangayCode: loc.BarangayCode,
		BarangayName: loc.BarangayName,
	}
}

func (a addressResponse) toLocation() core.PSGCLocation {
	return core.PSGCLocation{
		RegionCode:   a.RegionCode,
		RegionName:   a.RegionName,
		ProvinceCode: a.ProvinceCode,
		ProvinceName: a.ProvinceName,
		CityCode:     a.CityCode,
		CityName:     a.CityName,
		BarangayCode: a.BarangayCode,
		BarangayName: a.BarangayName,
	}
}

type memberResponse struct {
	ID                    int64           `json:"id"`
	FirstName             string          `json:"first_name"`
	LastName              string          `json:"last_name"`
	BirthDate             string          `json:"birth_date,omitempty"`
	Phone                 string          `json:"phone,omitempty"`
	Program               string          `json:"program,omitempty"`
	AgeBracket            string          `json:"age_bracket,omitempty"`
	ContributionPesos     float64         `json:"contribution_pesos"`
	AvailmentPeriod       string          `json:"availment_period,omitempty"`
	Branch                string          `json:"branch,omitempty"`
	Status                string          `json:"status"`
	MembershipFeePaid     bool            `json:"membership_fee_paid"`
	MembershipFeePesos    float64         `json:"membership_fee_pesos,omitempty"`
	MembershipFeePaidDate string          `json:"membership_fee_paid_date,omitempty"`
	LastPaymentDate       string          `json:"last_payment_date,omitempty"`
	NextPaymentDate       string          `json:"next_payment_date,omitempty"`
	Address               addressResponse `json:"address"`
}

func newMemberResponse(m core.Member) memberResponse {
	return memberResponse{
		ID:                    m.ID,
		FirstName:             m.FirstName,
		LastName:              m.LastName,
		BirthDate:             fmtDate(m.BirthDate),
		Phone:                 m.Phone,
		Program:               m.Program,
		AgeBracket:            m.AgeBracket,
		ContributionPesos:     m.ContributionAmount.Pesos(),
		AvailmentPeriod:       m.AvailmentPeriod,
		Branch:                m.Branch,
		Status:                string(m.Status),
		MembershipFeePaid:     m.MembershipFeePaid,
		MembershipFeePesos:    m.MembershipFeeAmount.Pesos(),
		MembershipFeePaidDate: fmtDate(m.MembershipFeePaidDate),
		LastPaymentDate:       fmtDate(m.LastPaymentDate),
		NextPaymentDate:       fmtDate(m.NextPaymentDate),
		Address:               newAddressResponse(m.Address),
	}
}

type paymentResponse struct {
	ID              int64   `json:"id"`
	MemberID        int64   `json:"member_id"`
	AmountPesos     float64 `json:"amount_pesos"`
	PaymentDate     string  `json:"payment_date"`
	ReferenceNumber string  `json:"reference_number"`
	Notes           string  `json:"notes,omitempty"`
	PeriodStart     string  `json:"period_start"`
	NextPayment     string  `json:"next_payment"`
	LateFeePercent  int     `json:"late_fee_percent"`
	TotalPesos      float64 `json:"total_pesos"`
}

func newPaymentResponse(p core.Payment) paymentResponse {
	return paymentResponse{
		ID:              p.ID,
		MemberID:        p.MemberID,
		AmountPesos:     p.Amount.Pesos(),
		PaymentDate:     fmtDate(p.PaymentDate),
		ReferenceNumber: p.ReferenceNumber,
		Notes:           p.Notes,
		PeriodStart:     fmtDate(p.PeriodStart),
		NextPayment:     fmtDate(p.NextPayment),
		LateFeePercent:  p.LateFeePercent,
		TotalPesos:      p.EffectiveAmount().Pesos(),
	}
}

type ledgerEntryResponse struct {
	ID          int64   `json:"id"`
	AmountPesos float64 `json:"amount_pesos"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Branch      string  `json:"branch,omitempty"`
	Expense     bool    `json:"expense"`
}

func newLedgerEntryResponse(e core.LedgerEntry) ledgerEntryResponse {
	return ledgerEntryResponse{
		ID:          e.ID,
		AmountPesos: float64(e.AmountCents) / 100.0,
		Description: e.Description,
		Category:    string(e.Category),
		Date:        fmtDate(e.Date),
		Branch:      e.Branch,
		Expense:     e.IsExpense(),
	}
}

type barangayCountResponse struct {
	addressResponse
	MemberCount int `json:"member_count"`
}

func newBarangayCountResponse(c core.BarangayCount) barangayCountResponse {
	return barangayCountResponse{
		addressResponse: newAddressResponse(c.Location),
		MemberCount:     c.MemberCount,
	}
}

type fieldWorkerResponse struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	Age                 int     `json:"age,omitempty"`
	Branch              string  `json:"branch,omitempty"`
	TotalCollectedPesos float64 `json:"total_collected_pesos"`
}

func newFieldWorkerResponse(w core.FieldWorker) fieldWorkerResponse {
	return fieldWorkerResponse{
		ID:                  w.ID,
		Name:                w.Name,
		Age:                 w.Age,
		Branch:              w.Branch,
		TotalCollectedPesos: w.TotalCollected.Pesos(),
	}
}

type notificationResponse struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	MemberID  int64  `json:"member_id,omitempty"`
	CreatedAt string `json:"created_at"`
	SentAt    string `json:"sent_at,omitempty"`
}

func newNotificationResponse(n core.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Message:   n.Message,
		Read:      n.Read,
		MemberID:  n.MemberID,
		CreatedAt: fmtTimestamp(n.CreatedAt),
		SentAt:    fmtTimestamp(n.SentAt),
	}
}

type scheduleResponse struct {
	PeriodStart string `json:"period_start,omitempty"`
	NextPayment string `json:"next_payment,omitempty"`
	HasPayments bool   `json:"has_payments"`
	Overdue     bool   `json:"overdue"`
}

func newScheduleResponse(s services.MemberSchedule) scheduleResponse {
	return scheduleResponse{
		PeriodStart: fmtDate(s.PeriodStart),
		NextPayment: fmtDate(s.NextPayment),
		HasPayments: s.HasPayments,
		Overdue:     s.Overdue,
	}
}

type summaryTotals struct {
	ExpensesPesos        float64 `json:"expenses_pesos"`
	MonthlyPaymentsPesos float64 `json:"monthly_payments_pesos"`
	MembershipFeesPesos  float64 `json:"membership_fees_pesos"`
	GrossRevenuePesos    float64 `json:"gross_revenue_pesos"`
	NetRevenuePesos      float64 `json:"net_revenue_pesos"`
}

func newSummaryTotals(s core.RevenueSummary) summaryTotals {
	return summaryTotals{
		ExpensesPesos:        s.Expenses.Pesos(),
		MonthlyPaymentsPesos: s.MonthlyPayments.Pesos(),
		MembershipFeesPesos:  s.MembershipFees.Pesos(),
		GrossRevenuePesos:    s.GrossRevenue.Pesos(),
		NetRevenuePesos:      s.NetRevenue.Pesos(),
	}
}

type summaryResponse struct {
	Start            string        `json:"start"`
	End              string        `json:"end"`
	Current          summaryTotals `json:"current"`
	Previous         summaryTotals `json:"previous"`
	NetChangePct     float64       `json:"net_change_pct"`
	GrossChangePct   float64       `json:"gross_change_pct"`
	ExpenseChangePct float64       `json:"expense_change_pct"`
}

func newSummaryResponse(rep services.Report) summaryResponse {
	return summaryResponse{
		Start:            fmtDate(rep.Window.Start),
		End:              fmtDate(rep.Window.End),
		Current:          newSummaryTotals(rep.Current),
		Previous:         newSummaryTotals(rep.Previous),
		NetChangePct:     rep.NetChangePct,
		GrossChangePct:   rep.GrossChangePct,
		ExpenseChangePct: rep.ExpenseChangePct,
	}
}
