package http

import (
	"net/url"
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	now := time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

	t.Run("defaults to current month", func(t *testing.T) {
		current, previous, err := parseWindow(url.Values{}, now)
		if err != nil {
			t.Fatal(err)
		}
		if fmtDate(current.Start) != "2025-06-01" || fmtDate(current.End) != "2025-06-30" {
			t.Errorf("current = %s..%s", fmtDate(current.Start), fmtDate(current.End))
		}
		if fmtDate(previous.Start) != "2025-05-01" || fmtDate(previous.End) != "2025-05-31" {
			t.Errorf("previous = %s..%s", fmtDate(previous.Start), fmtDate(previous.End))
		}
	})

	t.Run("explicit range uses equal-length previous span", func(t *testing.T) {
		q := url.Values{"start": {"2025-06-10"}, "end": {"2025-06-19"}}
		current, previous, err := parseWindow(q, now)
		if err != nil {
			t.Fatal(err)
		}
		if fmtDate(current.Start) != "2025-06-10" || fmtDate(current.End) != "2025-06-19" {
			t.Errorf("current = %s..%s", fmtDate(current.Start), fmtDate(current.End))
		}
		if fmtDate(previous.Start) != "2025-05-31" || fmtDate(previous.End) != "2025-06-09" {
			t.Errorf("previous = %s..%s", fmtDate(previous.Start), fmtDate(previous.End))
		}
	})

	t.Run("named period", func(t *testing.T) {
		q := url.Values{"period": {"yearly"}}
		current, _, err := parseWindow(q, now)
		if err != nil {
			t.Fatal(err)
		}
		if fmtDate(current.Start) != "2025-01-01" || fmtDate(current.End) != "2025-12-31" {
			t.Errorf("current = %s..%s", fmtDate(current.Start), fmtDate(current.End))
		}
	})

	errCases := map[string]url.Values{
		"unknown period":    {"period": {"quarterly"}},
		"start without end": {"start": {"2025-06-01"}},
		"end before start":  {"start": {"2025-06-10"}, "end": {"2025-06-01"}},
		"unparseable date":  {"start": {"June 1"}, "end": {"2025-06-30"}},
	}
	for name, q := range errCases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := parseWindow(q, now); err == nil {
				t.Error("expected error")
			}
		})
	}
}
