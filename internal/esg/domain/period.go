package domain

import (
	"fmt"
	"time"
)

// Period selects the reporting window and its chart granularity.
type Period string

const (
	PeriodDaily     Period = "daily"
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
)

// ParsePeriod maps the query value onto a Period. Anything unrecognized,
// including the empty string, falls back to monthly.
func ParsePeriod(value string) Period {
	switch Period(value) {
	case PeriodDaily, PeriodWeekly, PeriodQuarterly:
		return Period(value)
	default:
		return PeriodMonthly
	}
}

// PeriodBounds returns the half-open window [start, end) for a period
// anchored at the given instant. The end is always the day after the
// anchor's midnight, so the anchor day itself is included.
//
// Lookbacks: daily covers the last 7 days, weekly the last 56 days,
// monthly and quarterly the last year.
func PeriodBounds(period Period, anchor time.Time) (time.Time, time.Time) {
	day := truncateToDay(anchor)
	end := day.AddDate(0, 0, 1)

	switch period {
	case PeriodDaily:
		return day.AddDate(0, 0, -6), end
	case PeriodWeekly:
		return day.AddDate(0, 0, -55), end
	default: // monthly and quarterly
		return day.AddDate(-1, 0, 0), end
	}
}

// BucketKey formats the chart grouping key for an instant.
// daily: YYYY-MM-DD, weekly: ISO week YYYY-Wnn, monthly: YYYY-MM,
// quarterly: "YYYY Qn" with quarters split at calendar month boundaries.
func BucketKey(period Period, t time.Time) string {
	t = t.UTC()
	switch period {
	case PeriodDaily:
		return t.Format("2006-01-02")
	case PeriodWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case PeriodQuarterly:
		quarter := (int(t.Month())-1)/3 + 1
		return fmt.Sprintf("%d Q%d", t.Year(), quarter)
	default:
		return t.Format("2006-01")
	}
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
