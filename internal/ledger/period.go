package ledger

import (
	"fmt"
	"time"
)

// Period is a named relative date range resolved against a reference day.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	PeriodThisMonth Period = "this_month"
	PeriodLastMonth Period = "last_month"
)

// ParsePeriod validates a raw period string.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodToday, PeriodYesterday, PeriodThisMonth, PeriodLastMonth:
		return Period(s), nil
	default:
		return "", fmt.Errorf("ledger: invalid period %q", s)
	}
}

// Label returns the user-facing name of the period.
func (p Period) Label() string {
	switch p {
	case PeriodToday:
		return "hari ini"
	case PeriodYesterday:
		return "kemarin"
	case PeriodThisMonth:
		return "bulan ini"
	case PeriodLastMonth:
		return "bulan lalu"
	default:
		return string(p)
	}
}

// Resolve computes the half-open interval [start, end) for the period
// relative to today. Month boundaries are derived by truncating to day 1
// and shifting whole months with AddDate, so uneven month lengths and
// leap-year February are handled by the calendar itself.
func (p Period) Resolve(today time.Time) (start, end time.Time, err error) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	switch p {
	case PeriodToday:
		return day, day.AddDate(0, 0, 1), nil
	case PeriodYesterday:
		return day.AddDate(0, 0, -1), day, nil
	case PeriodThisMonth:
		return monthStart, monthStart.AddDate(0, 1, 0), nil
	case PeriodLastMonth:
		return monthStart.AddDate(0, -1, 0), monthStart, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("ledger: invalid period %q", p)
	}
}
