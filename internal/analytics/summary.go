package analytics

import (
	"time"

	"github.com/Mash24/Job-Connect-sub000/internal/domain"
)

// Summarize derives the top-line KPIs by comparing the trailing window
// [now-W, now] against the window before it [now-2W, now-W). An empty
// previous window reports 0% growth rather than dividing by zero.
func Summarize(snap domain.Snapshot, now time.Time, window time.Duration) domain.Summary {
	recentStart := now.Add(-window)
	prevStart := now.Add(-2 * window)

	recentUsers, prevUsers := splitWindow(snap.UserTimes(), prevStart, recentStart)
	recentJobs, prevJobs := splitWindow(snap.JobTimes(), prevStart, recentStart)
	recentApps, prevApps := splitWindow(snap.ApplicationTimes(), prevStart, recentStart)

	return domain.Summary{
		Window:      window,
		GeneratedAt: now,

		RecentUsers:   recentUsers,
		PreviousUsers: prevUsers,
		UserGrowthPct: growthPct(recentUsers, prevUsers),

		RecentJobs:   recentJobs,
		PreviousJobs: prevJobs,
		JobGrowthPct: growthPct(recentJobs, prevJobs),

		RecentApplications:   recentApps,
		PreviousApplications: prevApps,
		ApplicationGrowthPct: growthPct(recentApps, prevApps),

		AvgApplicationsPerJob: avg(float64(recentApps), recentJobs),
		ConversionRatePct:     conversionPct(recentApps, recentUsers),
	}
}

// splitWindow counts timestamps landing in the recent window
// [recentStart, ∞) and the previous window [prevStart, recentStart).
// Anything older than prevStart is ignored.
func splitWindow(times []time.Time, prevStart, recentStart time.Time) (recent, previous int) {
	for _, t := range times {
		switch {
		case !t.Before(recentStart):
			recent++
		case !t.Before(prevStart):
			previous++
		}
	}
	return recent, previous
}

// growthPct is the period-over-period change as a percentage of the
// previous count. 0 when the previous window is empty.
func growthPct(recent, previous int) float64 {
	if previous == 0 {
		return 0
	}
	return float64(recent-previous) / float64(previous) * 100
}

// conversionPct is recent applications per recent user, as a percentage.
// 0 when no users signed up recently.
func conversionPct(recentApps, recentUsers int) float64 {
	if recentUsers == 0 {
		return 0
	}
	return float64(recentApps) / float64(recentUsers) * 100
}
