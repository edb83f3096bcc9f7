package analytics

import (
	"time"

	"github.com/google/uuid"

	"github.com/Mash24/Job-Connect-sub000/internal/domain"
)

// ComputeRetention evaluates each horizon independently: a member counts
// as retained at horizon H when at least one of their applications falls
// in [signup, signup+H days). Horizons do not accumulate: a user whose
// only application landed on day 10 is retained at D+14 and D+30 but not
// at D+7. An empty cohort reports 0% at every horizon.
func ComputeRetention(cohort domain.Cohort, apps []domain.Application, horizons []int) map[int]domain.RetentionWindow {
	byUser := make(map[uuid.UUID][]time.Time)
	for _, a := range apps {
		byUser[a.UserID] = append(byUser[a.UserID], a.CreatedAt)
	}

	size := len(cohort.Members)
	out := make(map[int]domain.RetentionWindow, len(horizons))
	for _, h := range horizons {
		retained := 0
		for _, u := range cohort.Members {
			if appliedWithin(u, byUser[u.ID], h) {
				retained++
			}
		}
		pct := 0.0
		if size > 0 {
			pct = float64(retained) / float64(size) * 100
		}
		out[h] = domain.RetentionWindow{
			Period:     cohort.Period,
			Horizon:    h,
			CohortSize: size,
			Retained:   retained,
			Percentage: pct,
		}
	}
	return out
}

// appliedWithin checks the half-open window [signup, signup+horizon).
// An application at the exact signup instant qualifies; one at the exact
// horizon boundary does not.
func appliedWithin(u domain.User, appTimes []time.Time, horizonDays int) bool {
	end := u.CreatedAt.AddDate(0, 0, horizonDays)
	for _, at := range appTimes {
		if !at.Before(u.CreatedAt) && at.Before(end) {
			return true
		}
	}
	return false
}

// RetentionTable builds the ordered cohort retention rows the dashboard
// renders: one row per cohort, ascending by period, each evaluated at
// every horizon.
func RetentionTable(users []domain.User, apps []domain.Application, g Granularity, horizons []int) ([]domain.CohortRetention, error) {
	cohorts, err := BuildCohorts(users, g)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.CohortRetention, len(cohorts))
	for i, c := range cohorts {
		rows[i] = domain.CohortRetention{
			Cohort:  c,
			Windows: ComputeRetention(c, apps, horizons),
		}
	}
	return rows, nil
}
