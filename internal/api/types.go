package api

import "time"

// RetentionWindowResponse is one horizon evaluated for one cohort.
type RetentionWindowResponse struct {
	Horizon    int     `json:"horizon_days"`
	Retained   int     `json:"retained"`
	Percentage float64 `json:"percentage"`
}

// CohortRowResponse is one row of the retention table.
type CohortRowResponse struct {
	Period  string                    `json:"period"`
	Size    int                       `json:"size"`
	Windows []RetentionWindowResponse `json:"windows"`
}

type CohortTableResponse struct {
	Granularity string              `json:"granularity"`
	Cohorts     []CohortRowResponse `json:"cohorts"`
}

type SeriesPointResponse struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Count    int    `json:"count"`
	Forecast bool   `json:"forecast"`
}

type ForecastResponse struct {
	Collection         string                `json:"collection"`
	Series             []SeriesPointResponse `json:"series"`
	Slope              float64               `json:"slope"`
	Intercept          float64               `json:"intercept"`
	ProjectedGrowthPct float64               `json:"projected_growth_pct"`
	TotalProjected     int                   `json:"total_projected"`
}

type CategoryStatResponse struct {
	Name            string  `json:"name"`
	Count           int     `json:"count"`
	AvgSalary       float64 `json:"avg_salary"`
	AvgApplications float64 `json:"avg_applications"`
}

type LocationStatResponse struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	AvgSalary  float64 `json:"avg_salary"`
	Categories int     `json:"categories"`
}

type SalaryTrendPointResponse struct {
	Month string  `json:"month"`
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
}

type SkillDemandResponse struct {
	Skill     string  `json:"skill"`
	Count     int     `json:"count"`
	AvgSalary float64 `json:"avg_salary"`
}

type WeeklyGrowthPointResponse struct {
	Week       string  `json:"week"`
	Count      int     `json:"count"`
	Categories int     `json:"categories"`
	AvgSalary  float64 `json:"avg_salary"`
}

type MarketResponse struct {
	Categories   []CategoryStatResponse      `json:"categories"`
	Locations    []LocationStatResponse      `json:"locations"`
	SalaryTrend  []SalaryTrendPointResponse  `json:"salary_trend"`
	TopSkills    []SkillDemandResponse       `json:"top_skills"`
	WeeklyGrowth []WeeklyGrowthPointResponse `json:"weekly_growth"`
}

type SummaryResponse struct {
	WindowDays  int    `json:"window_days"`
	GeneratedAt string `json:"generated_at"`

	RecentUsers   int     `json:"recent_users"`
	PreviousUsers int     `json:"previous_users"`
	UserGrowthPct float64 `json:"user_growth_pct"`

	RecentJobs   int     `json:"recent_jobs"`
	PreviousJobs int     `json:"previous_jobs"`
	JobGrowthPct float64 `json:"job_growth_pct"`

	RecentApplications   int     `json:"recent_applications"`
	PreviousApplications int     `json:"previous_applications"`
	ApplicationGrowthPct float64 `json:"application_growth_pct"`

	AvgApplicationsPerJob float64 `json:"avg_applications_per_job"`
	ConversionRatePct     float64 `json:"conversion_rate_pct"`
}

type RefreshResponse struct {
	Status string `json:"status"`
	Users  int    `json:"users"`
	Jobs   int    `json:"jobs"`
	Apps   int    `json:"applications"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
