package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Mash24/Job-Connect-sub000/internal/dashboard"
	"github.com/Mash24/Job-Connect-sub000/internal/domain"
)

// mockDashboard implements Dashboard for handler tests.
type mockDashboard struct {
	mu sync.Mutex

	refreshFn  func(ctx context.Context) error
	snapshotFn func() domain.Snapshot
	cohortFn   func(p dashboard.CohortParams) ([]domain.CohortRetention, error)
	forecastFn func(c dashboard.Collection, horizonDays int) (dashboard.ForecastResult, error)
	marketFn   func(f domain.MarketFilter) domain.MarketReport
	overviewFn func(windowDays int) domain.Summary
}

func (m *mockDashboard) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refreshFn != nil {
		return m.refreshFn(ctx)
	}
	return nil
}

func (m *mockDashboard) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshotFn != nil {
		return m.snapshotFn()
	}
	return domain.Snapshot{}
}

func (m *mockDashboard) CohortTable(p dashboard.CohortParams) ([]domain.CohortRetention, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cohortFn != nil {
		return m.cohortFn(p)
	}
	return nil, nil
}

func (m *mockDashboard) ForecastSeries(c dashboard.Collection, horizonDays int) (dashboard.ForecastResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forecastFn != nil {
		return m.forecastFn(c, horizonDays)
	}
	return dashboard.ForecastResult{}, nil
}

func (m *mockDashboard) Market(f domain.MarketFilter) domain.MarketReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.marketFn != nil {
		return m.marketFn(f)
	}
	return domain.MarketReport{}
}

func (m *mockDashboard) Overview(windowDays int) domain.Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.overviewFn != nil {
		return m.overviewFn(windowDays)
	}
	return domain.Summary{}
}

// mockHealthChecker implements HealthChecker for handler tests.
type mockHealthChecker struct {
	pingFn func(ctx context.Context) error
}

func (m *mockHealthChecker) PingContext(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

// --- Health Tests ---

func TestHandler_Health_Simple(t *testing.T) {
	handler := NewHandler(&mockDashboard{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("Status = %q, want ok", resp.Status)
	}
	if resp.Components != nil {
		t.Error("simple health check should not include components")
	}
}

func TestHandler_Health_VerboseHealthy(t *testing.T) {
	handler := NewHandler(&mockDashboard{}).WithHealthChecker(&mockHealthChecker{})

	req := httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var resp HealthResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Components["database"] != "healthy" {
		t.Errorf("database component = %q, want healthy", resp.Components["database"])
	}
}

func TestHandler_Health_VerboseDegraded(t *testing.T) {
	checker := &mockHealthChecker{
		pingFn: func(ctx context.Context) error {
			return errors.New("connection refused")
		},
	}
	handler := NewHandler(&mockDashboard{}).WithHealthChecker(checker)

	req := httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}

	var resp HealthResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", resp.Status)
	}
}

// --- Cohort Tests ---

func TestHandler_Cohorts_Success(t *testing.T) {
	svc := &mockDashboard{
		cohortFn: func(p dashboard.CohortParams) ([]domain.CohortRetention, error) {
			if p.Granularity != "week" {
				t.Errorf("granularity = %q, want week", p.Granularity)
			}
			if len(p.Horizons) != 2 || p.Horizons[0] != 7 || p.Horizons[1] != 30 {
				t.Errorf("horizons = %v, want [7 30]", p.Horizons)
			}
			return []domain.CohortRetention{
				{
					Cohort: domain.Cohort{
						Period:  "2024-01-14",
						Members: []domain.User{{ID: uuid.New()}, {ID: uuid.New()}},
					},
					Windows: map[int]domain.RetentionWindow{
						30: {Period: "2024-01-14", Horizon: 30, CohortSize: 2, Retained: 2, Percentage: 100},
						7:  {Period: "2024-01-14", Horizon: 7, CohortSize: 2, Retained: 1, Percentage: 50},
					},
				},
			}, nil
		},
	}
	handler := NewHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/analytics/cohorts?granularity=week&horizons=7,30", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp CohortTableResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Granularity != "week" {
		t.Errorf("Granularity = %q, want week", resp.Granularity)
	}
	if len(resp.Cohorts) != 1 {
		t.Fatalf("expected 1 cohort, got %d", len(resp.Cohorts))
	}

	row := resp.Cohorts[0]
	if row.Period != "2024-01-14" {
		t.Errorf("Period = %q, want 2024-01-14", row.Period)
	}
	if row.Size != 2 {
		t.Errorf("Size = %d, want 2", row.Size)
	}
	if len(row.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(row.Windows))
	}
	// Windows come out ordered by horizon regardless of map iteration.
	if row.Windows[0].Horizon != 7 || row.Windows[1].Horizon != 30 {
		t.Errorf("window horizons = [%d %d], want [7 30]", row.Windows[0].Horizon, row.Windows[1].Horizon)
	}
	if row.Windows[0].Percentage != 50 {
		t.Errorf("7-day percentage = %v, want 50", row.Windows[0].Percentage)
	}
}

func TestHandler_Cohorts_InvalidGranularity(t *testing.T) {
	handler := NewHandler(&mockDashboard{})

	req := httptest.NewRequest(http.MethodGet, "/analytics/cohorts?granularity=hourly", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandler_Cohorts_InvalidHorizons(t *testing.T) {
	handler := NewHandler(&mockDashboard{})

	req := httptest.NewRequest(http.MethodGet, "/analytics/cohorts?horizons=7,0", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandler_Cohorts_ComputeError(t *testing.T) {
	svc := &mockDashboard{
		cohortFn: func(p dashboard.CohortParams) ([]domain.CohortRetention, error) {
			return nil, errors.New("zero timestamp")
		},
	}
	handler := NewHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/analytics/cohorts", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

// --- Forecast Tests ---

func TestHandler_Forecast_Success(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	svc := &mockDashboard{
		forecastFn: func(c dashboard.Collection, horizonDays int) (dashboard.ForecastResult, error) {
			if c != dashboard.CollectionUsers {
				t.Errorf("collection = %q, want users", c)
			}
			if horizonDays != 7 {
				t.Errorf("horizonDays = %d, want 7", horizonDays)
			}
			return dashboard.ForecastResult{
				Series: []domain.SeriesPoint{
					{Date: base, Count: 10},
					{Date: base.AddDate(0, 0, 1), Count: 20, Forecast: true},
				},
				Trend:           domain.Trend{Slope: 10, Intercept: 10},
				ProjectedGrowth: 100,
				TotalProjected:  20,
			}, nil
		},
	}
	handler := NewHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/analytics/forecast?collection=users&days=7", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp ForecastResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Collection != "users" {
		t.Errorf("Collection = %q, want users", resp.Collection)
	}
	if len(resp.Series) != 2 {
		t.Fatalf("expected 2 series points, got %d", len(resp.Series))
	}
	if resp.Series[0].Date != "2024-03-01" {
		t.Errorf("Date = %q, want 2024-03-01", resp.Series[0].Date)
	}
	if resp.Series[0].Forecast {
		t.Error("first point should be observed, not forecast")
	}
	if !resp.Series[1].Forecast {
		t.Error("second point should be forecast")
	}
	if resp.Slope != 10 {
		t.Errorf("Slope = %v, want 10", resp.Slope)
	}
	if resp.TotalProjected != 20 {
		t.Errorf("TotalProjected = %d, want 20", resp.TotalProjected)
	}
}

func TestHandler_Forecast_MissingCollection(t *testing.T) {
	handler := NewHandler(&mockDashboard{})

	req := httptest.NewRequest(http.MethodGet, "/analytics/forecast", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandler_Forecast_InvalidDays(t *testing.T) {
	handler := NewHandler(&mockDashboard{})

	req := httptest.NewRequest(http.MethodGet, "/analytics/forecast?collection=users&days=400", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// --- Market Tests ---

func TestHandler_Market_Success(t *testing.T) {
	svc := &mockDashboard{
		marketFn: func(f domain.MarketFilter) domain.MarketReport {
			if f.Category != "Technology" || f.Location != "Berlin" {
				t.Errorf("filter = %+v, want Technology/Berlin", f)
			}
			return domain.MarketReport{
				Categories: []domain.CategoryStat{
					{Name: "Technology", Count: 3, AvgSalary: 90000, AvgApplications: 1.5},
				},
				Locations: []domain.LocationStat{
					{Name: "Berlin", Count: 3, AvgSalary: 90000, Categories: 1},
				},
				SalaryTrend: []domain.SalaryTrendPoint{
					{Month: "2024-03", Count: 3, Min: 80000, Max: 100000, Avg: 90000},
				},
				TopSkills: []domain.SkillDemand{
					{Skill: "go", Count: 3, AvgSalary: 90000},
				},
				WeeklyGrowth: []domain.WeeklyGrowthPoint{
					{Week: "2024-W10", Count: 3, Categories: 1, AvgSalary: 90000},
				},
			}
		},
	}
	handler := NewHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/analytics/market?category=Technology&location=Berlin", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp MarketResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if len(resp.Categories) != 1 || resp.Categories[0].Name != "Technology" {
		t.Errorf("unexpected categories: %+v", resp.Categories)
	}
	if len(resp.TopSkills) != 1 || resp.TopSkills[0].Skill != "go" {
		t.Errorf("unexpected top skills: %+v", resp.TopSkills)
	}
	if len(resp.WeeklyGrowth) != 1 || resp.WeeklyGrowth[0].Week != "2024-W10" {
		t.Errorf("unexpected weekly growth: %+v", resp.WeeklyGrowth)
	}
}

func TestHandler_Market_EmptyReportHasEmptySlices(t *testing.T) {
	handler := NewHandler(&mockDashboard{})

	req := httptest.NewRequest(http.MethodGet, "/analytics/market", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// Empty aggregates serialize as [] rather than null.
	body := w.Body.String()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	for _, key := range []string{"categories", "locations", "salary_trend", "top_skills", "weekly_growth"} {
		if string(raw[key]) == "null" {
			t.Errorf("%s should be [], got null", key)
		}
	}
}

// --- Summary Tests ---

func TestHandler_Summary_Success(t *testing.T) {
	generated := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	svc := &mockDashboard{
		overviewFn: func(windowDays int) domain.Summary {
			if windowDays != 14 {
				t.Errorf("windowDays = %d, want 14", windowDays)
			}
			return domain.Summary{
				Window:                14 * 24 * time.Hour,
				GeneratedAt:           generated,
				RecentUsers:           6,
				PreviousUsers:         4,
				UserGrowthPct:         50,
				RecentJobs:            3,
				PreviousJobs:          2,
				JobGrowthPct:          50,
				RecentApplications:    9,
				PreviousApplications:  3,
				ApplicationGrowthPct:  200,
				AvgApplicationsPerJob: 3,
				ConversionRatePct:     150,
			}
		},
	}
	handler := NewHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/analytics/summary?window_days=14", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp SummaryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.WindowDays != 14 {
		t.Errorf("WindowDays = %d, want 14", resp.WindowDays)
	}
	if resp.GeneratedAt != "2024-03-31T12:00:00Z" {
		t.Errorf("GeneratedAt = %q, want 2024-03-31T12:00:00Z", resp.GeneratedAt)
	}
	if resp.UserGrowthPct != 50 {
		t.Errorf("UserGrowthPct = %v, want 50", resp.UserGrowthPct)
	}
	if resp.ConversionRatePct != 150 {
		t.Errorf("ConversionRatePct = %v, want 150", resp.ConversionRatePct)
	}
}

func TestHandler_Summary_InvalidWindow(t *testing.T) {
	handler := NewHandler(&mockDashboard{})

	req := httptest.NewRequest(http.MethodGet, "/analytics/summary?window_days=0", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// --- Refresh Tests ---

func TestHandler_Refresh_Success(t *testing.T) {
	svc := &mockDashboard{
		snapshotFn: func() domain.Snapshot {
			return domain.Snapshot{
				Users:        make([]domain.User, 5),
				Jobs:         make([]domain.Job, 3),
				Applications: make([]domain.Application, 8),
			}
		},
	}
	handler := NewHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp RefreshResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Status != "ok" {
		t.Errorf("Status = %q, want ok", resp.Status)
	}
	if resp.Users != 5 || resp.Jobs != 3 || resp.Apps != 8 {
		t.Errorf("counts = %d/%d/%d, want 5/3/8", resp.Users, resp.Jobs, resp.Apps)
	}
}

func TestHandler_Refresh_StoreError(t *testing.T) {
	svc := &mockDashboard{
		refreshFn: func(ctx context.Context) error {
			return errors.New("db down")
		},
	}
	handler := NewHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestHandler_Refresh_WrongMethod(t *testing.T) {
	handler := NewHandler(&mockDashboard{})

	req := httptest.NewRequest(http.MethodGet, "/refresh", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandler_UnknownRoute(t *testing.T) {
	handler := NewHandler(&mockDashboard{})

	req := httptest.NewRequest(http.MethodGet, "/analytics/unknown", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	var resp ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error != "not found" {
		t.Errorf("Error = %q, want not found", resp.Error)
	}
}
