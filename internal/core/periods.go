package core

import "time"

// Reporting periods for revenue summaries.
const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

type Period string

func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	default:
		return false
	}
}

// WindowAt returns the calendar window containing the reference time:
// the day itself, the Monday-to-Sunday week, the calendar month, or the
// calendar year.
func (p Period) WindowAt(now time.Time) Window {
	day := DateOnly(now)
	switch p {
	case PeriodWeekly:
		// ISO-style week starting Monday. time.Sunday is 0, so Sunday sits
		// six days after the Monday that opened its week.
		back := int(day.Weekday()) - 1
		if day.Weekday() == time.Sunday {
			back = 6
		}
		start := day.AddDate(0, 0, -back)
		return Window{Start: start, End: start.AddDate(0, 0, 6)}
	case PeriodMonthly:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return Window{Start: start, End: start.AddDate(0, 1, -1)}
	case PeriodYearly:
		start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
		return Window{Start: start, End: time.Date(day.Year(), time.December, 31, 0, 0, 0, 0, day.Location())}
	default:
		return Window{Start: day, End: day}
	}
}

// PreviousWindowAt returns the calendar window immediately before the one
// containing the reference time. Calendar-aware: the window before a March
// monthly window is all of February, regardless of length.
func (p Period) PreviousWindowAt(now time.Time) Window {
	current := p.WindowAt(now)
	switch p {
	case PeriodMonthly:
		return p.WindowAt(current.Start.AddDate(0, 0, -1))
	case PeriodYearly:
		return p.WindowAt(current.Start.AddDate(0, 0, -1))
	default:
		return current.PreviousSpan()
	}
}
