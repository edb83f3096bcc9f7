package metrics

import "time"

// NoopSink is a no-op implementation of Sink.
// Used when metrics are disabled to avoid nil checks.
type NoopSink struct{}

// NewNoopSink returns a no-op metrics sink.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (n *NoopSink) SnapshotRefreshed(d time.Duration, users, jobs, applications int, err error) {}
func (n *NoopSink) ComputeCompleted(kind string, d time.Duration)                               {}
func (n *NoopSink) ComputeError(kind string)                                                    {}
func (n *NoopSink) KPIPublishError()                                                            {}
func (n *NoopSink) HTTPRequest(route string, status int, d time.Duration)                       {}
