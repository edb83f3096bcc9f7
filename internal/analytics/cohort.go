package analytics

import (
	"fmt"
	"sort"

	"github.com/Mash24/Job-Connect-sub000/internal/domain"
)

// BuildCohorts partitions users by the period containing their signup
// time. Every user lands in exactly one cohort; cohorts come back sorted
// ascending by period key. An empty user set yields an empty slice.
func BuildCohorts(users []domain.User, g Granularity) ([]domain.Cohort, error) {
	byPeriod := make(map[string][]domain.User)
	for _, u := range users {
		key, err := BucketKey(u.CreatedAt, g)
		if err != nil {
			return nil, fmt.Errorf("bucket user %s: %w", u.ID, err)
		}
		byPeriod[key] = append(byPeriod[key], u)
	}

	cohorts := make([]domain.Cohort, 0, len(byPeriod))
	for period, members := range byPeriod {
		cohorts = append(cohorts, domain.Cohort{Period: period, Members: members})
	}
	sort.Slice(cohorts, func(i, j int) bool {
		return cohorts[i].Period < cohorts[j].Period
	})
	return cohorts, nil
}
