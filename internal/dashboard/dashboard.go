// Package dashboard hosts the control flow around the analytics engine:
// it holds the current snapshot, recomputes derived results from scratch
// on every request, and swaps in a fresh snapshot on refresh. Derived
// results are never cached between calls; parameter changes simply run
// the pipeline again over the full snapshot.
package dashboard

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Mash24/Job-Connect-sub000/internal/analytics"
	"github.com/Mash24/Job-Connect-sub000/internal/domain"
	"github.com/Mash24/Job-Connect-sub000/internal/kpicache"
	"github.com/Mash24/Job-Connect-sub000/internal/metrics"
)

// SnapshotLoader is the storage boundary: a read-only materialized view
// of the three collections.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, since time.Time, limit int) (domain.Snapshot, error)
}

// Collection selects which record set a forecast runs over.
type Collection string

const (
	CollectionUsers        Collection = "users"
	CollectionJobs         Collection = "jobs"
	CollectionApplications Collection = "applications"
)

// ParseCollection validates a user-supplied collection name.
func ParseCollection(s string) (Collection, error) {
	switch c := Collection(s); c {
	case CollectionUsers, CollectionJobs, CollectionApplications:
		return c, nil
	}
	return "", fmt.Errorf("unknown collection %q", s)
}

type Config struct {
	SnapshotWindow   time.Duration
	SnapshotRowLimit int

	// Defaults applied when a request does not override them.
	RetentionHorizons []int
	ForecastHorizon   int
	SummaryWindow     time.Duration
}

// Service wires the engine to its collaborators. Safe for concurrent
// use: the snapshot pointer swaps atomically under the mutex and every
// computation reads one coherent snapshot value.
type Service struct {
	config Config
	loader SnapshotLoader
	kpi    kpicache.Publisher
	sink   metrics.Sink
	clock  func() time.Time

	mu   sync.RWMutex
	snap domain.Snapshot
}

func New(config Config, loader SnapshotLoader) *Service {
	return &Service{
		config: config,
		loader: loader,
		kpi:    kpicache.NoopPublisher{},
		sink:   metrics.NewNoopSink(),
		clock:  time.Now,
	}
}

// WithKPIPublisher sets the publisher that receives the summary after
// each refresh.
func (s *Service) WithKPIPublisher(p kpicache.Publisher) *Service {
	s.kpi = p
	return s
}

// WithMetrics sets the metrics sink.
func (s *Service) WithMetrics(sink metrics.Sink) *Service {
	s.sink = sink
	return s
}

// Refresh reloads the snapshot from the store and swaps it in whole.
// On failure the previous snapshot stays visible; there is no partial
// state to leak.
func (s *Service) Refresh(ctx context.Context) error {
	start := s.clock()
	since := start.UTC().Add(-s.config.SnapshotWindow)

	snap, err := s.loader.LoadSnapshot(ctx, since, s.config.SnapshotRowLimit)
	if err != nil {
		s.sink.SnapshotRefreshed(s.clock().Sub(start), 0, 0, 0, err)
		return fmt.Errorf("load snapshot: %w", err)
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	s.sink.SnapshotRefreshed(s.clock().Sub(start), len(snap.Users), len(snap.Jobs), len(snap.Applications), nil)
	log.Printf("dashboard: snapshot refreshed (users=%d, jobs=%d, applications=%d)",
		len(snap.Users), len(snap.Jobs), len(snap.Applications))

	summary := analytics.Summarize(snap, s.clock().UTC(), s.config.SummaryWindow)
	if err := s.kpi.Publish(ctx, summary); err != nil {
		s.sink.KPIPublishError()
		log.Printf("dashboard: kpi publish error: %v", err)
	}
	return nil
}

// Snapshot returns the currently held snapshot.
func (s *Service) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// CohortParams selects cohort granularity and retention horizons.
// Zero-valued fields fall back to configured defaults.
type CohortParams struct {
	Granularity analytics.Granularity
	Horizons    []int
}

// CohortTable recomputes the full cohort retention table.
func (s *Service) CohortTable(p CohortParams) ([]domain.CohortRetention, error) {
	snap := s.Snapshot()
	start := s.clock()

	horizons := p.Horizons
	if len(horizons) == 0 {
		horizons = s.config.RetentionHorizons
	}

	rows, err := analytics.RetentionTable(snap.Users, snap.Applications, p.Granularity, horizons)
	if err != nil {
		s.sink.ComputeError(metrics.KindCohorts)
		return nil, err
	}
	s.sink.ComputeCompleted(metrics.KindCohorts, s.clock().Sub(start))
	return rows, nil
}

// ForecastResult is an extended daily series plus its derived numbers.
type ForecastResult struct {
	Series          []domain.SeriesPoint
	Trend           domain.Trend
	ProjectedGrowth float64
	TotalProjected  int
}

// ForecastSeries recomputes the daily series for one collection and
// projects it forward.
func (s *Service) ForecastSeries(c Collection, horizonDays int) (ForecastResult, error) {
	snap := s.Snapshot()
	start := s.clock()

	var times []time.Time
	switch c {
	case CollectionUsers:
		times = snap.UserTimes()
	case CollectionJobs:
		times = snap.JobTimes()
	case CollectionApplications:
		times = snap.ApplicationTimes()
	default:
		s.sink.ComputeError(metrics.KindForecast)
		return ForecastResult{}, fmt.Errorf("unknown collection %q", c)
	}

	if horizonDays <= 0 {
		horizonDays = s.config.ForecastHorizon
	}

	daily := analytics.DailyCounts(times)
	extended := analytics.Forecast(daily, horizonDays)
	result := ForecastResult{
		Series:          extended,
		Trend:           analytics.TrendOf(daily),
		ProjectedGrowth: analytics.ProjectedGrowth(extended),
		TotalProjected:  analytics.TotalProjected(extended),
	}
	s.sink.ComputeCompleted(metrics.KindForecast, s.clock().Sub(start))
	return result, nil
}

// Market recomputes the five market aggregates over the filtered jobs.
func (s *Service) Market(f domain.MarketFilter) domain.MarketReport {
	snap := s.Snapshot()
	start := s.clock()

	report := analytics.MarketReport(snap.Jobs, snap.Applications, f)
	s.sink.ComputeCompleted(metrics.KindMarket, s.clock().Sub(start))
	return report
}

// Overview recomputes the KPI summary. windowDays <= 0 uses the
// configured default.
func (s *Service) Overview(windowDays int) domain.Summary {
	snap := s.Snapshot()
	start := s.clock()

	window := s.config.SummaryWindow
	if windowDays > 0 {
		window = time.Duration(windowDays) * 24 * time.Hour
	}

	summary := analytics.Summarize(snap, s.clock().UTC(), window)
	s.sink.ComputeCompleted(metrics.KindSummary, s.clock().Sub(start))
	return summary
}
