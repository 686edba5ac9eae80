package domain

import "time"

// TimeScope is the lookback window a retrieval query is bounded by.
type TimeScope string

const (
	// ScopeDaily covers the trailing 24 hours.
	ScopeDaily TimeScope = "daily"
	// ScopeWeekly covers the trailing 7 days.
	ScopeWeekly TimeScope = "weekly"
	// ScopeMonthly covers the trailing 30 days.
	ScopeMonthly TimeScope = "monthly"
)

// Range maps the scope to a concrete [start, end] interval ending at
// now. An unrecognised scope falls back to monthly.
func (s TimeScope) Range(now time.Time) (start, end time.Time) {
	switch s {
	case ScopeDaily:
		return now.Add(-24 * time.Hour), now
	case ScopeWeekly:
		return now.AddDate(0, 0, -7), now
	case ScopeMonthly:
		return now.AddDate(0, 0, -30), now
	default:
		return now.AddDate(0, 0, -30), now
	}
}

// ExpandDateRange lists every calendar date between start and end
// inclusive, formatted as YYYY-MM-DD. The vector store filters on
// exact per-day equality rather than range comparisons, so a range
// query has to be expanded into the explicit list of days it covers.
func ExpandDateRange(start, end time.Time) []string {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var dates []string
	for d := startDay; !d.After(endDay); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format("2006-01-02"))
	}
	return dates
}
