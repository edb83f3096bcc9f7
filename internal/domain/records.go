package domain

import (
	"time"

	"github.com/google/uuid"
)

// Substituted labels for jobs that carry no category or location.
// Substitution happens at the aggregation boundary, not in storage.
const (
	DefaultCategory = "Uncategorized"
	DefaultLocation = "Remote"
)

type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
	JobStatusDraft  JobStatus = "draft"
)

// User is a registered account. Only identity and signup time matter to
// the analytics engine.
type User struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

// Job is a posting. Category, location, salary and skills are all
// optional in the source data; nil means the field was never set.
type Job struct {
	ID        uuid.UUID
	Category  *string
	Location  *string
	Salary    *float64
	Skills    []string
	Status    JobStatus
	CreatedAt time.Time
}

// CategoryLabel returns the job's category, or DefaultCategory when the
// field is absent.
func (j Job) CategoryLabel() string {
	if j.Category == nil || *j.Category == "" {
		return DefaultCategory
	}
	return *j.Category
}

// LocationLabel returns the job's location, or DefaultLocation when the
// field is absent.
func (j Job) LocationLabel() string {
	if j.Location == nil || *j.Location == "" {
		return DefaultLocation
	}
	return *j.Location
}

// SalaryValue returns the salary and whether one was set. Jobs without a
// salary still count toward record counts but never toward salary sums.
func (j Job) SalaryValue() (float64, bool) {
	if j.Salary == nil {
		return 0, false
	}
	return *j.Salary, true
}

// Application links a user to a job they applied for.
type Application struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	JobID     uuid.UUID
	CreatedAt time.Time
}

// Snapshot is one materialized read of the three collections. The engine
// treats it as immutable: every computation reads a snapshot and returns
// freshly allocated results.
type Snapshot struct {
	Users        []User
	Jobs         []Job
	Applications []Application
	LoadedAt     time.Time
}

// UserTimes returns the creation timestamps of all users.
func (s Snapshot) UserTimes() []time.Time {
	out := make([]time.Time, len(s.Users))
	for i, u := range s.Users {
		out[i] = u.CreatedAt
	}
	return out
}

// JobTimes returns the creation timestamps of all jobs.
func (s Snapshot) JobTimes() []time.Time {
	out := make([]time.Time, len(s.Jobs))
	for i, j := range s.Jobs {
		out[i] = j.CreatedAt
	}
	return out
}

// ApplicationTimes returns the creation timestamps of all applications.
func (s Snapshot) ApplicationTimes() []time.Time {
	out := make([]time.Time, len(s.Applications))
	for i, a := range s.Applications {
		out[i] = a.CreatedAt
	}
	return out
}
