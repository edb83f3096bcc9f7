package metrics

import "time"

// Sink defines the interface for recording metrics.
// All methods are fire-and-forget: implementations MUST NOT block or propagate errors.
// If the metrics backend is unavailable, implementations log warnings and continue.
type Sink interface {
	// Snapshot lifecycle
	SnapshotRefreshed(duration time.Duration, users, jobs, applications int, err error)

	// Engine computations
	ComputeCompleted(kind string, duration time.Duration)
	ComputeError(kind string)

	// KPI cache
	KPIPublishError()

	// HTTP surface
	HTTPRequest(route string, status int, duration time.Duration)
}

// Computation kind labels for ComputeCompleted/ComputeError.
const (
	KindCohorts  = "cohorts"
	KindForecast = "forecast"
	KindMarket   = "market"
	KindSummary  = "summary"
)
