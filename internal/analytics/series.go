package analytics

import (
	"sort"
	"time"

	"github.com/Mash24/Job-Connect-sub000/internal/domain"
)

// DailyCounts collapses raw timestamps into a per-day count series,
// sorted ascending by date. Dates are normalized to midnight UTC so two
// records on the same calendar day always share a point.
func DailyCounts(times []time.Time) []domain.SeriesPoint {
	counts := make(map[time.Time]int)
	for _, t := range times {
		day := t.UTC().Truncate(24 * time.Hour)
		counts[day]++
	}

	points := make([]domain.SeriesPoint, 0, len(counts))
	for day, n := range counts {
		points = append(points, domain.SeriesPoint{Date: day, Count: n})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}
