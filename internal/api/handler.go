package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/Mash24/Job-Connect-sub000/internal/analytics"
	"github.com/Mash24/Job-Connect-sub000/internal/dashboard"
	"github.com/Mash24/Job-Connect-sub000/internal/domain"
	"github.com/Mash24/Job-Connect-sub000/internal/metrics"
)

// Dashboard is the analytics surface the handler serves. All reads
// recompute from the in-memory snapshot.
type Dashboard interface {
	Refresh(ctx context.Context) error
	Snapshot() domain.Snapshot
	CohortTable(p dashboard.CohortParams) ([]domain.CohortRetention, error)
	ForecastSeries(c dashboard.Collection, horizonDays int) (dashboard.ForecastResult, error)
	Market(f domain.MarketFilter) domain.MarketReport
	Overview(windowDays int) domain.Summary
}

// HealthChecker provides database health status for the /health endpoint.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	svc  Dashboard
	db   HealthChecker
	sink metrics.Sink
}

func NewHandler(svc Dashboard) *Handler {
	return &Handler{svc: svc, sink: metrics.NewNoopSink()}
}

// WithHealthChecker sets the database health checker for verbose /health responses.
func (h *Handler) WithHealthChecker(db HealthChecker) *Handler {
	h.db = db
	return h
}

// WithMetrics sets the metrics sink for request instrumentation.
func (h *Handler) WithMetrics(sink metrics.Sink) *Handler {
	if sink != nil {
		h.sink = sink
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	switch {
	case path == "/health" && r.Method == http.MethodGet:
		h.health(rec, r)

	case path == "/analytics/cohorts" && r.Method == http.MethodGet:
		h.cohorts(rec, r)

	case path == "/analytics/forecast" && r.Method == http.MethodGet:
		h.forecast(rec, r)

	case path == "/analytics/market" && r.Method == http.MethodGet:
		h.market(rec, r)

	case path == "/analytics/summary" && r.Method == http.MethodGet:
		h.summary(rec, r)

	case path == "/refresh" && r.Method == http.MethodPost:
		h.refresh(rec, r)

	default:
		writeError(rec, http.StatusNotFound, "not found")
	}

	h.sink.HTTPRequest(path, rec.status, time.Since(start))
}

// statusRecorder captures the response status for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// HealthResponse represents the /health endpoint response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	verbose := r.URL.Query().Get("verbose") == "true"

	if !verbose || h.db == nil {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
		return
	}

	resp := HealthResponse{
		Status:     "ok",
		Components: make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		resp.Status = "degraded"
		resp.Components["database"] = "unhealthy: " + err.Error()
	} else {
		resp.Components["database"] = "healthy"
	}

	statusCode := http.StatusOK
	if resp.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, resp)
}

func (h *Handler) cohorts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	granularity, err := parseGranularityParam(q.Get("granularity"), analytics.GranularityMonth)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	horizons, err := parseHorizonsParam(q.Get("horizons"), nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.svc.CohortTable(dashboard.CohortParams{
		Granularity: granularity,
		Horizons:    horizons,
	})
	if err != nil {
		log.Printf("api: cohort table error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to compute cohorts")
		return
	}

	resp := CohortTableResponse{
		Granularity: string(granularity),
		Cohorts:     make([]CohortRowResponse, len(rows)),
	}
	for i, row := range rows {
		windows := make([]RetentionWindowResponse, 0, len(row.Windows))
		for _, horizon := range sortedHorizons(row.Windows) {
			win := row.Windows[horizon]
			windows = append(windows, RetentionWindowResponse{
				Horizon:    win.Horizon,
				Retained:   win.Retained,
				Percentage: win.Percentage,
			})
		}
		resp.Cohorts[i] = CohortRowResponse{
			Period:  row.Cohort.Period,
			Size:    len(row.Cohort.Members),
			Windows: windows,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) forecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	collection, err := parseCollectionParam(q.Get("collection"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	days, err := parseDaysParam(q.Get("days"), "days", 0, maxForecastDay)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.ForecastSeries(collection, days)
	if err != nil {
		log.Printf("api: forecast error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to compute forecast")
		return
	}

	resp := ForecastResponse{
		Collection:         string(collection),
		Series:             make([]SeriesPointResponse, len(result.Series)),
		Slope:              result.Trend.Slope,
		Intercept:          result.Trend.Intercept,
		ProjectedGrowthPct: result.ProjectedGrowth,
		TotalProjected:     result.TotalProjected,
	}
	for i, pt := range result.Series {
		resp.Series[i] = SeriesPointResponse{
			Date:     formatDate(pt.Date),
			Count:    pt.Count,
			Forecast: pt.Forecast,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) market(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.MarketFilter{
		Category: q.Get("category"),
		Location: q.Get("location"),
	}

	report := h.svc.Market(filter)

	resp := MarketResponse{
		Categories:   make([]CategoryStatResponse, len(report.Categories)),
		Locations:    make([]LocationStatResponse, len(report.Locations)),
		SalaryTrend:  make([]SalaryTrendPointResponse, len(report.SalaryTrend)),
		TopSkills:    make([]SkillDemandResponse, len(report.TopSkills)),
		WeeklyGrowth: make([]WeeklyGrowthPointResponse, len(report.WeeklyGrowth)),
	}
	for i, c := range report.Categories {
		resp.Categories[i] = CategoryStatResponse{
			Name:            c.Name,
			Count:           c.Count,
			AvgSalary:       c.AvgSalary,
			AvgApplications: c.AvgApplications,
		}
	}
	for i, l := range report.Locations {
		resp.Locations[i] = LocationStatResponse{
			Name:       l.Name,
			Count:      l.Count,
			AvgSalary:  l.AvgSalary,
			Categories: l.Categories,
		}
	}
	for i, s := range report.SalaryTrend {
		resp.SalaryTrend[i] = SalaryTrendPointResponse{
			Month: s.Month,
			Count: s.Count,
			Min:   s.Min,
			Max:   s.Max,
			Avg:   s.Avg,
		}
	}
	for i, s := range report.TopSkills {
		resp.TopSkills[i] = SkillDemandResponse{
			Skill:     s.Skill,
			Count:     s.Count,
			AvgSalary: s.AvgSalary,
		}
	}
	for i, wk := range report.WeeklyGrowth {
		resp.WeeklyGrowth[i] = WeeklyGrowthPointResponse{
			Week:       wk.Week,
			Count:      wk.Count,
			Categories: wk.Categories,
			AvgSalary:  wk.AvgSalary,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	windowDays, err := parseDaysParam(r.URL.Query().Get("window_days"), "window_days", 0, maxWindowDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s := h.svc.Overview(windowDays)

	writeJSON(w, http.StatusOK, SummaryResponse{
		WindowDays:            int(s.Window.Hours() / 24),
		GeneratedAt:           formatTime(s.GeneratedAt),
		RecentUsers:           s.RecentUsers,
		PreviousUsers:         s.PreviousUsers,
		UserGrowthPct:         s.UserGrowthPct,
		RecentJobs:            s.RecentJobs,
		PreviousJobs:          s.PreviousJobs,
		JobGrowthPct:          s.JobGrowthPct,
		RecentApplications:    s.RecentApplications,
		PreviousApplications:  s.PreviousApplications,
		ApplicationGrowthPct:  s.ApplicationGrowthPct,
		AvgApplicationsPerJob: s.AvgApplicationsPerJob,
		ConversionRatePct:     s.ConversionRatePct,
	})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Refresh(r.Context()); err != nil {
		log.Printf("api: refresh error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to refresh snapshot")
		return
	}

	snap := h.svc.Snapshot()
	writeJSON(w, http.StatusOK, RefreshResponse{
		Status: "ok",
		Users:  len(snap.Users),
		Jobs:   len(snap.Jobs),
		Apps:   len(snap.Applications),
	})
}

func sortedHorizons(windows map[int]domain.RetentionWindow) []int {
	horizons := make([]int, 0, len(windows))
	for h := range windows {
		horizons = append(horizons, h)
	}
	sort.Ints(horizons)
	return horizons
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: json encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
