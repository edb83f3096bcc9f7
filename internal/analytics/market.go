package analytics

import (
	"sort"

	"github.com/google/uuid"

	"github.com/Mash24/Job-Connect-sub000/internal/domain"
)

// TopSkillLimit caps the skill demand list.
const TopSkillLimit = 10

// MarketReport runs the five market reducers over the filtered job set.
// Missing fields are defaulted here, at the aggregation boundary: no
// category reads as "Uncategorized", no location as "Remote", absent
// salaries stay out of the salary sums, absent skills mean no skills.
// The reducers are independent; each sees the same filtered slice.
func MarketReport(jobs []domain.Job, apps []domain.Application, filter domain.MarketFilter) domain.MarketReport {
	filtered := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if filter.Matches(j) {
			filtered = append(filtered, j)
		}
	}

	return domain.MarketReport{
		Categories:   CategoryStats(filtered, apps),
		Locations:    LocationStats(filtered),
		SalaryTrend:  SalaryTrend(filtered),
		TopSkills:    TopSkills(filtered),
		WeeklyGrowth: WeeklyGrowth(filtered),
	}
}

// CategoryStats counts jobs per category with average salary and average
// applications per job, sorted by count descending (name ascending on
// ties, so output order is deterministic).
func CategoryStats(jobs []domain.Job, apps []domain.Application) []domain.CategoryStat {
	appsPerJob := make(map[uuid.UUID]int, len(apps))
	for _, a := range apps {
		appsPerJob[a.JobID]++
	}

	type acc struct {
		count       int
		salarySum   float64
		salaryCount int
		appCount    int
	}
	byName := make(map[string]*acc)
	for _, j := range jobs {
		name := j.CategoryLabel()
		a := byName[name]
		if a == nil {
			a = &acc{}
			byName[name] = a
		}
		a.count++
		if s, ok := j.SalaryValue(); ok {
			a.salarySum += s
			a.salaryCount++
		}
		a.appCount += appsPerJob[j.ID]
	}

	stats := make([]domain.CategoryStat, 0, len(byName))
	for name, a := range byName {
		stats = append(stats, domain.CategoryStat{
			Name:            name,
			Count:           a.count,
			AvgSalary:       avg(a.salarySum, a.salaryCount),
			AvgApplications: avg(float64(a.appCount), a.count),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

// LocationStats counts jobs per location with average salary and the
// number of distinct categories seen there, sorted by count descending.
func LocationStats(jobs []domain.Job) []domain.LocationStat {
	type acc struct {
		count       int
		salarySum   float64
		salaryCount int
		categories  map[string]struct{}
	}
	byName := make(map[string]*acc)
	for _, j := range jobs {
		name := j.LocationLabel()
		a := byName[name]
		if a == nil {
			a = &acc{categories: make(map[string]struct{})}
			byName[name] = a
		}
		a.count++
		if s, ok := j.SalaryValue(); ok {
			a.salarySum += s
			a.salaryCount++
		}
		a.categories[j.CategoryLabel()] = struct{}{}
	}

	stats := make([]domain.LocationStat, 0, len(byName))
	for name, a := range byName {
		stats = append(stats, domain.LocationStat{
			Name:       name,
			Count:      a.count,
			AvgSalary:  avg(a.salarySum, a.salaryCount),
			Categories: len(a.categories),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

// SalaryTrend groups salaried jobs by creation month and reports
// count/min/max/average per month, ascending by month key. Jobs without
// a salary are left out entirely.
func SalaryTrend(jobs []domain.Job) []domain.SalaryTrendPoint {
	type acc struct {
		count    int
		sum      float64
		min, max float64
	}
	byMonth := make(map[string]*acc)
	for _, j := range jobs {
		s, ok := j.SalaryValue()
		if !ok {
			continue
		}
		key := j.CreatedAt.UTC().Format("2006-01")
		a := byMonth[key]
		if a == nil {
			a = &acc{min: s, max: s}
			byMonth[key] = a
		}
		a.count++
		a.sum += s
		if s < a.min {
			a.min = s
		}
		if s > a.max {
			a.max = s
		}
	}

	points := make([]domain.SalaryTrendPoint, 0, len(byMonth))
	for month, a := range byMonth {
		points = append(points, domain.SalaryTrendPoint{
			Month: month,
			Count: a.count,
			Min:   a.min,
			Max:   a.max,
			Avg:   a.sum / float64(a.count),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Month < points[j].Month
	})
	return points
}

// TopSkills counts every skill occurrence across job postings with the
// average salary of postings asking for it, sorted by count descending
// and truncated to TopSkillLimit.
func TopSkills(jobs []domain.Job) []domain.SkillDemand {
	type acc struct {
		count       int
		salarySum   float64
		salaryCount int
	}
	bySkill := make(map[string]*acc)
	for _, j := range jobs {
		s, hasSalary := j.SalaryValue()
		for _, skill := range j.Skills {
			a := bySkill[skill]
			if a == nil {
				a = &acc{}
				bySkill[skill] = a
			}
			a.count++
			if hasSalary {
				a.salarySum += s
				a.salaryCount++
			}
		}
	}

	demand := make([]domain.SkillDemand, 0, len(bySkill))
	for skill, a := range bySkill {
		demand = append(demand, domain.SkillDemand{
			Skill:     skill,
			Count:     a.count,
			AvgSalary: avg(a.salarySum, a.salaryCount),
		})
	}
	sort.Slice(demand, func(i, j int) bool {
		if demand[i].Count != demand[j].Count {
			return demand[i].Count > demand[j].Count
		}
		return demand[i].Skill < demand[j].Skill
	})
	if len(demand) > TopSkillLimit {
		demand = demand[:TopSkillLimit]
	}
	return demand
}

// WeeklyGrowth groups jobs by ISO week and reports count, distinct
// category count and average salary per week, ascending by week key.
// Note the ISO anchor here versus the Sunday anchor used for cohorts.
func WeeklyGrowth(jobs []domain.Job) []domain.WeeklyGrowthPoint {
	type acc struct {
		count       int
		salarySum   float64
		salaryCount int
		categories  map[string]struct{}
	}
	byWeek := make(map[string]*acc)
	for _, j := range jobs {
		key := WeekKeyISO(j.CreatedAt)
		a := byWeek[key]
		if a == nil {
			a = &acc{categories: make(map[string]struct{})}
			byWeek[key] = a
		}
		a.count++
		if s, ok := j.SalaryValue(); ok {
			a.salarySum += s
			a.salaryCount++
		}
		a.categories[j.CategoryLabel()] = struct{}{}
	}

	points := make([]domain.WeeklyGrowthPoint, 0, len(byWeek))
	for week, a := range byWeek {
		points = append(points, domain.WeeklyGrowthPoint{
			Week:       week,
			Count:      a.count,
			Categories: len(a.categories),
			AvgSalary:  avg(a.salarySum, a.salaryCount),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Week < points[j].Week
	})
	return points
}

// avg divides sum by n, reporting 0 for an empty denominator.
func avg(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
