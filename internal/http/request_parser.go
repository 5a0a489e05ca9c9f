package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bafci/internal/core"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON request body into dst, capping the body size so a
// client cannot feed the server an unbounded payload.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// pathID parses the named path segment as a positive integer id.
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// parseDateField parses an optional YYYY-MM-DD value. Empty means unset.
func parseDateField(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// parseWindow builds a reporting window from the query string. Either a named
// period (daily, weekly, monthly, yearly) or an explicit start/end pair; a
// bare query defaults to the current month.
func parseWindow(query url.Values, now time.Time) (current, previous core.Window, err error) {
	startRaw, endRaw := query.Get("start"), query.Get("end")
	if startRaw != "" || endRaw != "" {
		if startRaw == "" || endRaw == "" {
			return current, previous, errors.New("start and end must be given together")
		}
		start, err := parseDateField(startRaw)
		if err != nil {
			return current, previous, err
		}
		end, err := parseDateField(endRaw)
		if err != nil {
			return current, previous, err
		}
		if end.Before(start) {
			return current, previous, errors.New("end must not precede start")
		}
		current = core.Window{Start: start, End: end}
		return current, current.PreviousSpan(), nil
	}

	period := core.Period(query.Get("period"))
	if period == "" {
		period = core.PeriodMonthly
	}
	if !period.Valid() {
		return current, previous, fmt.Errorf("invalid period %q", period)
	}
	return period.WindowAt(now), period.PreviousWindowAt(now), nil
}

type memberRequest struct {
	FirstName          string          `json:"first_name"`
	LastName           string          `json:"last_name"`
	BirthDate          string          `json:"birth_date"`
	Phone              string          `json:"phone"`
	Program            string          `json:"program"`
	AgeBracket         string          `json:"age_bracket"`
	ContributionAmount string          `json:"contribution_amount"`
	AvailmentPeriod    string          `json:"availment_period"`
	Branch             string          `json:"branch"`
	Status             string          `json:"status"`
	Address            addressResponse `json:"address"`
}

func (req memberRequest) toMember() (core.Member, error) {
	birthDate, err := parseDateField(req.BirthDate)
	if err != nil {
		return core.Member{}, err
	}

	var contribution core.Money
	if req.ContributionAmount != "" {
		cents, err := core.ParseDecimalToCents(req.ContributionAmount)
		if err != nil {
			return core.Member{}, fmt.Errorf("contribution_amount: %w", err)
		}
		contribution = core.Money{Cents: cents}
	}

	return core.Member{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		BirthDate:          birthDate,
		Phone:              req.Phone,
		Program:            req.Program,
		AgeBracket:         req.AgeBracket,
		ContributionAmount: contribution,
		AvailmentPeriod:    req.AvailmentPeriod,
		Branch:             req.Branch,
		Status:             core.MemberStatus(req.Status),
		Address:            req.Address.toLocation(),
	}, nil
}

type statusRequest struct {
	Status string `json:"status"`
}

type membershipFeeRequest struct {
	Amount   string `json:"amount"`
	PaidDate string `json:"paid_date"`
}

type paymentRequest struct {
	MemberID        int64  `json:"member_id"`
	Amount          string `json:"amount"`
	Date            string `json:"date"`
	ReferenceNumber string `json:"reference_number"`
	Notes           string `json:"notes"`
	FieldWorkerID   int64  `json:"field_worker_id"`
}

type ledgerEntryRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Branch      string `json:"branch"`
}

func (req ledgerEntryRequest) toEntry() (core.LedgerEntry, error) {
	cents, err := core.ParseSignedDecimalToCents(req.Amount)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("amount: %w", err)
	}
	date, err := parseDateField(req.Date)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	if date.IsZero() {
		date = core.DateOnly(time.Now())
	}
	return core.LedgerEntry{
		AmountCents: cents,
		Description: req.Description,
		Category:    core.LedgerCategory(req.Category),
		Date:        date,
		Branch:      req.Branch,
	}, nil
}

type adjustRequest struct {
	addressResponse
	Delta int `json:"delta"`
}

type fieldWorkerRequest struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Branch string `json:"branch"`
}

type collectionRequest struct {
	Amount string `json:"amount"`
}
