// Package testutil provides shared test helpers for the dashboard.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Mash24/Job-Connect-sub000/internal/domain"
)

// FakeClock provides deterministic time for testing.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewFakeClock creates a FakeClock set to the given time.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// TestContext returns a context with a 5-second timeout.
// The context is cancelled when the test completes.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// MustParseUUID parses a UUID string and panics on error.
// Only for use in tests.
func MustParseUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		panic("testutil.MustParseUUID: " + err.Error())
	}
	return id
}

// UserAt builds a user created at the given time.
func UserAt(created time.Time) domain.User {
	return domain.User{ID: uuid.New(), CreatedAt: created}
}

// JobAt builds a bare active job created at the given time. Optional
// fields stay nil; tests set what they need.
func JobAt(created time.Time) domain.Job {
	return domain.Job{ID: uuid.New(), Status: domain.JobStatusActive, CreatedAt: created}
}

// ApplicationAt builds an application linking the given user and job.
func ApplicationAt(userID, jobID uuid.UUID, created time.Time) domain.Application {
	return domain.Application{ID: uuid.New(), UserID: userID, JobID: jobID, CreatedAt: created}
}
