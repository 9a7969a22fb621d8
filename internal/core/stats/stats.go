// Package stats derives focus statistics from the session log. Every
// figure is recomputed from the full log on demand; nothing is cached.
package stats

import (
	"time"

	"focusloop/internal/core/model"
)

// Period selects the aggregation window.
type Period string

const (
	// PeriodDaily covers the local calendar day containing the
	// reference instant.
	PeriodDaily Period = "daily"
	// PeriodWeekly covers the rolling window of seven local calendar
	// days ending with the day containing the reference instant.
	PeriodWeekly Period = "weekly"
)

// Summary aggregates completed work sessions over one period.
type Summary struct {
	CompletedCount int
	TotalFocus     time.Duration
}

// Summarize filters the log to work sessions inside the period around
// the reference instant and sums their durations.
func Summarize(sessions []model.Session, period Period, reference time.Time) Summary {
	start, end := window(period, reference)

	var summary Summary
	for _, session := range sessions {
		if session.Mode != model.ModeWork {
			continue
		}
		at := session.CompletedAt.Local()
		if at.Before(start) || !at.Before(end) {
			continue
		}
		summary.CompletedCount++
		summary.TotalFocus += time.Duration(session.DurationSeconds) * time.Second
	}
	return summary
}

func window(period Period, reference time.Time) (time.Time, time.Time) {
	local := reference.Local()
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	if period == PeriodWeekly {
		return dayStart.AddDate(0, 0, -6), dayEnd
	}
	return dayStart, dayEnd
}
