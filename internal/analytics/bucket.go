// Package analytics contains the pure computation engine behind the
// dashboard: time bucketing, cohort retention, trend forecasting, market
// aggregation and KPI summarization. Every function reads its inputs and
// returns freshly allocated results, so concurrent invocations over the
// same snapshot need no coordination.
package analytics

import (
	"errors"
	"fmt"
	"time"
)

// Granularity selects the time-bucketing resolution for cohorts and
// period series.
type Granularity string

const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
)

// ErrZeroTimestamp is returned when a record carries no creation time.
// That is a caller contract violation, not something to bucket silently.
var ErrZeroTimestamp = errors.New("zero timestamp")

// ParseGranularity validates a user-supplied granularity string.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case GranularityDay, GranularityWeek, GranularityMonth, GranularityQuarter:
		return g, nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}

// BucketKey maps t to its period key under g. All key formats sort
// lexicographically in chronological order.
func BucketKey(t time.Time, g Granularity) (string, error) {
	if t.IsZero() {
		return "", ErrZeroTimestamp
	}
	t = t.UTC()
	switch g {
	case GranularityDay:
		return t.Format("2006-01-02"), nil
	case GranularityWeek:
		return WeekKeySundayStart(t), nil
	case GranularityMonth:
		return t.Format("2006-01"), nil
	case GranularityQuarter:
		q := (int(t.Month())-1)/3 + 1
		return fmt.Sprintf("%04d-Q%d", t.Year(), q), nil
	default:
		return "", fmt.Errorf("unknown granularity %q", g)
	}
}

// WeekKeySundayStart returns the ISO date of the Sunday that starts t's
// week. Cohort weeks are Sunday-anchored.
func WeekKeySundayStart(t time.Time) string {
	t = t.UTC()
	start := t.AddDate(0, 0, -int(t.Weekday()))
	return start.Format("2006-01-02")
}

// WeekKeyISO returns t's ISO-8601 week as "YYYY-Wnn". The market weekly
// series uses ISO weeks (Monday start, Thursday-anchored year), a
// different anchor from the Sunday cohort weeks. The two strategies are
// kept separate on purpose: unifying them would shift existing values.
func WeekKeyISO(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
