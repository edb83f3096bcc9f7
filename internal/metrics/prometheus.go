package metrics

import (
	"log"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink implements Sink using Prometheus client library.
// All methods are non-blocking and fire-and-forget.
// Registration errors are logged but never propagated.
type PrometheusSink struct {
	// Snapshot metrics
	refreshesTotal     prometheus.Counter
	refreshErrorsTotal prometheus.Counter
	refreshDuration    prometheus.Histogram
	snapshotUsers      prometheus.Gauge
	snapshotJobs       prometheus.Gauge
	snapshotApps       prometheus.Gauge

	// Computation metrics
	computesTotal      *prometheus.CounterVec
	computeErrorsTotal *prometheus.CounterVec
	computeDuration    *prometheus.HistogramVec

	// KPI cache metrics
	kpiPublishErrorsTotal prometheus.Counter

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration prometheus.Histogram
}

// NewPrometheusSink creates a new Prometheus metrics sink.
// If registration fails, it logs a warning and returns a functional sink.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{}
	s.initSnapshotMetrics(reg)
	s.initComputeMetrics(reg)
	s.initHTTPMetrics(reg)
	return s
}

func (s *PrometheusSink) initSnapshotMetrics(reg prometheus.Registerer) {
	s.refreshesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jobconnect_snapshot_refreshes_total",
		Help: "Total number of snapshot reloads attempted.",
	})
	s.refreshErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jobconnect_snapshot_refresh_errors_total",
		Help: "Total number of failed snapshot reloads.",
	})
	s.refreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "jobconnect_snapshot_refresh_duration_seconds",
		Help:    "Duration of each snapshot reload in seconds.",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
	})
	s.snapshotUsers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "jobconnect_snapshot_users",
		Help: "Number of user records in the current snapshot.",
	})
	s.snapshotJobs = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "jobconnect_snapshot_jobs",
		Help: "Number of job records in the current snapshot.",
	})
	s.snapshotApps = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "jobconnect_snapshot_applications",
		Help: "Number of application records in the current snapshot.",
	})

	s.register(reg, s.refreshesTotal, "jobconnect_snapshot_refreshes_total")
	s.register(reg, s.refreshErrorsTotal, "jobconnect_snapshot_refresh_errors_total")
	s.register(reg, s.refreshDuration, "jobconnect_snapshot_refresh_duration_seconds")
	s.register(reg, s.snapshotUsers, "jobconnect_snapshot_users")
	s.register(reg, s.snapshotJobs, "jobconnect_snapshot_jobs")
	s.register(reg, s.snapshotApps, "jobconnect_snapshot_applications")
}

func (s *PrometheusSink) initComputeMetrics(reg prometheus.Registerer) {
	s.computesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobconnect_computes_total",
		Help: "Total number of completed engine computations.",
	}, []string{"kind"})
	s.computeErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobconnect_compute_errors_total",
		Help: "Total number of failed engine computations.",
	}, []string{"kind"})
	s.computeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jobconnect_compute_duration_seconds",
		Help:    "Duration of each engine computation in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"kind"})
	s.kpiPublishErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jobconnect_kpi_publish_errors_total",
		Help: "Total number of failed KPI cache publishes.",
	})

	s.register(reg, s.computesTotal, "jobconnect_computes_total")
	s.register(reg, s.computeErrorsTotal, "jobconnect_compute_errors_total")
	s.register(reg, s.computeDuration, "jobconnect_compute_duration_seconds")
	s.register(reg, s.kpiPublishErrorsTotal, "jobconnect_kpi_publish_errors_total")
}

func (s *PrometheusSink) initHTTPMetrics(reg prometheus.Registerer) {
	s.httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobconnect_http_requests_total",
		Help: "Total number of HTTP requests served.",
	}, []string{"route", "status"})
	s.httpRequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "jobconnect_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
	})

	s.register(reg, s.httpRequestsTotal, "jobconnect_http_requests_total")
	s.register(reg, s.httpRequestDuration, "jobconnect_http_request_duration_seconds")
}

// register attempts to register a collector, logging any errors without propagating them.
func (s *PrometheusSink) register(reg prometheus.Registerer, c prometheus.Collector, name string) {
	if err := reg.Register(c); err != nil {
		log.Printf("metrics: failed to register %s: %v", name, err)
	}
}

func (s *PrometheusSink) SnapshotRefreshed(duration time.Duration, users, jobs, applications int, err error) {
	s.refreshesTotal.Inc()
	s.refreshDuration.Observe(duration.Seconds())
	if err != nil {
		s.refreshErrorsTotal.Inc()
		return
	}
	s.snapshotUsers.Set(float64(users))
	s.snapshotJobs.Set(float64(jobs))
	s.snapshotApps.Set(float64(applications))
}

func (s *PrometheusSink) ComputeCompleted(kind string, duration time.Duration) {
	s.computesTotal.WithLabelValues(kind).Inc()
	s.computeDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (s *PrometheusSink) ComputeError(kind string) {
	s.computeErrorsTotal.WithLabelValues(kind).Inc()
}

func (s *PrometheusSink) KPIPublishError() {
	s.kpiPublishErrorsTotal.Inc()
}

func (s *PrometheusSink) HTTPRequest(route string, status int, duration time.Duration) {
	s.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	s.httpRequestDuration.Observe(duration.Seconds())
}
