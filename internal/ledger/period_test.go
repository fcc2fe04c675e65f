package ledger

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodResolve(t *testing.T) {
	tests := []struct {
		name      string
		period    Period
		today     time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "today mid-month",
			period:    PeriodToday,
			today:     time.Date(2024, 6, 15, 13, 45, 0, 0, time.UTC),
			wantStart: date(2024, 6, 15),
			wantEnd:   date(2024, 6, 16),
		},
		{
			name:      "today at month end",
			period:    PeriodToday,
			today:     date(2024, 1, 31),
			wantStart: date(2024, 1, 31),
			wantEnd:   date(2024, 2, 1),
		},
		{
			name:      "yesterday across month boundary",
			period:    PeriodYesterday,
			today:     date(2024, 3, 1),
			wantStart: date(2024, 2, 29),
			wantEnd:   date(2024, 3, 1),
		},
		{
			name:      "this month leap february",
			period:    PeriodThisMonth,
			today:     date(2024, 2, 15),
			wantStart: date(2024, 2, 1),
			wantEnd:   date(2024, 3, 1),
		},
		{
			name:      "this month non-leap february",
			period:    PeriodThisMonth,
			today:     date(2023, 2, 28),
			wantStart: date(2023, 2, 1),
			wantEnd:   date(2023, 3, 1),
		},
		{
			name:      "this month computed on jan 31",
			period:    PeriodThisMonth,
			today:     date(2024, 1, 31),
			wantStart: date(2024, 1, 1),
			wantEnd:   date(2024, 2, 1),
		},
		{
			name:      "this month december wraps year",
			period:    PeriodThisMonth,
			today:     date(2024, 12, 31),
			wantStart: date(2024, 12, 1),
			wantEnd:   date(2025, 1, 1),
		},
		{
			name:      "last month from march in leap year",
			period:    PeriodLastMonth,
			today:     date(2024, 3, 31),
			wantStart: date(2024, 2, 1),
			wantEnd:   date(2024, 3, 1),
		},
		{
			name:      "last month from january wraps year",
			period:    PeriodLastMonth,
			today:     date(2024, 1, 15),
			wantStart: date(2023, 12, 1),
			wantEnd:   date(2024, 1, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := tt.period.Resolve(tt.today)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestPeriodResolve_AllMonths(t *testing.T) {
	// Every month of a leap and a non-leap year must produce a start on
	// day 1 and an end on day 1 of the following month.
	for _, year := range []int{2023, 2024} {
		for m := time.January; m <= time.December; m++ {
			today := date(year, m, 15)
			start, end, err := PeriodThisMonth.Resolve(today)
			if err != nil {
				t.Fatalf("Resolve(%v): %v", today, err)
			}
			if start.Day() != 1 || start.Month() != m || start.Year() != year {
				t.Errorf("%d-%02d: start = %v, want first of month", year, m, start)
			}
			wantEnd := date(year, m, 1).AddDate(0, 1, 0)
			if !end.Equal(wantEnd) {
				t.Errorf("%d-%02d: end = %v, want %v", year, m, end, wantEnd)
			}
		}
	}
}

func TestPeriodResolve_Invalid(t *testing.T) {
	if _, _, err := Period("this_week").Resolve(date(2024, 6, 1)); err == nil {
		t.Error("Resolve() expected error for unknown period")
	}
}

func TestParsePeriod(t *testing.T) {
	for _, valid := range []string{"today", "yesterday", "this_month", "last_month"} {
		if _, err := ParsePeriod(valid); err != nil {
			t.Errorf("ParsePeriod(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := ParsePeriod("tomorrow"); err == nil {
		t.Error("ParsePeriod(\"tomorrow\") expected error")
	}
}
