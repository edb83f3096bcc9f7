package domain

import "time"

// Cohort is the set of users created within one bucketed time period.
type Cohort struct {
	Period  string
	Members []User
}

// RetentionWindow is one cohort evaluated at one horizon. Percentage is
// always within [0, 100]; an empty cohort reports 0.
type RetentionWindow struct {
	Period     string
	Horizon    int // days after signup
	CohortSize int
	Retained   int
	Percentage float64
}

// CohortRetention is one row of the dashboard retention table: a cohort
// plus its windows keyed by horizon.
type CohortRetention struct {
	Cohort  Cohort
	Windows map[int]RetentionWindow
}

// SeriesPoint is one day of a count series. Forecast marks projected
// points appended after the historical segment.
type SeriesPoint struct {
	Date     time.Time
	Count    int
	Forecast bool
}

// Trend holds fitted least-squares line parameters over series indices.
type Trend struct {
	Slope     float64
	Intercept float64
}

// CategoryStat summarizes one job category.
type CategoryStat struct {
	Name            string
	Count           int
	AvgSalary       float64
	AvgApplications float64
}

// LocationStat summarizes one job location.
type LocationStat struct {
	Name       string
	Count      int
	AvgSalary  float64
	Categories int // distinct categories seen at this location
}

// SalaryTrendPoint summarizes salaried jobs created in one month.
type SalaryTrendPoint struct {
	Month string // YYYY-MM
	Count int
	Min   float64
	Max   float64
	Avg   float64
}

// SkillDemand summarizes demand for one skill across job postings.
type SkillDemand struct {
	Skill     string
	Count     int
	AvgSalary float64
}

// WeeklyGrowthPoint summarizes jobs created in one ISO week.
type WeeklyGrowthPoint struct {
	Week       string // YYYY-Wnn
	Count      int
	Categories int
	AvgSalary  float64
}

// MarketReport bundles the five market aggregates computed from one
// filtered job set.
type MarketReport struct {
	Categories   []CategoryStat
	Locations    []LocationStat
	SalaryTrend  []SalaryTrendPoint
	TopSkills    []SkillDemand
	WeeklyGrowth []WeeklyGrowthPoint
}

// MarketFilter narrows the job set entering the market pipeline. Empty
// fields match everything. Values are compared against the defaulted
// dimension labels, so filtering by "Uncategorized" or "Remote" selects
// exactly the rows those labels produced.
type MarketFilter struct {
	Category string
	Location string
}

// Matches reports whether the job passes the filter.
func (f MarketFilter) Matches(j Job) bool {
	if f.Category != "" && j.CategoryLabel() != f.Category {
		return false
	}
	if f.Location != "" && j.LocationLabel() != f.Location {
		return false
	}
	return true
}

// Summary holds the top-line KPIs: each collection's trailing window
// compared against the window immediately before it.
type Summary struct {
	Window      time.Duration
	GeneratedAt time.Time

	RecentUsers   int
	PreviousUsers int
	UserGrowthPct float64

	RecentJobs   int
	PreviousJobs int
	JobGrowthPct float64

	RecentApplications   int
	PreviousApplications int
	ApplicationGrowthPct float64

	AvgApplicationsPerJob float64
	ConversionRatePct     float64
}
