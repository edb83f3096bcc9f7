// Package postgres reads materialized snapshots of the three source
// collections. The dashboard never writes through this store; the
// collections are owned by the ingestion side of the platform.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Mash24/Job-Connect-sub000/internal/domain"
)

// Store implements the dashboard's snapshot loader using PostgreSQL.
type Store struct {
	db        *sql.DB
	opTimeout time.Duration
}

// New creates a read-only store with the given connection and per-query
// timeout.
func New(db *sql.DB, opTimeout time.Duration) *Store {
	return &Store{db: db, opTimeout: opTimeout}
}

// ListUsers returns users created at or after since, oldest first.
func (s *Store) ListUsers(ctx context.Context, since time.Time, limit int) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, queryListUsers, since, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// ListJobs returns jobs created at or after since, oldest first.
// Nullable columns map to nil pointer fields; the engine applies its
// display defaults later, at the aggregation boundary.
func (s *Store) ListJobs(ctx context.Context, since time.Time, limit int) ([]domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, queryListJobs, since, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var (
			j        domain.Job
			category sql.NullString
			location sql.NullString
			salary   sql.NullFloat64
			skills   pq.StringArray
			status   string
		)
		if err := rows.Scan(&j.ID, &category, &location, &salary, &skills, &status, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		if category.Valid {
			j.Category = &category.String
		}
		if location.Valid {
			j.Location = &location.String
		}
		if salary.Valid {
			j.Salary = &salary.Float64
		}
		j.Skills = []string(skills)
		j.Status = domain.JobStatus(status)
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListApplications returns applications created at or after since,
// oldest first.
func (s *Store) ListApplications(ctx context.Context, since time.Time, limit int) ([]domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, queryListApplications, since, limit)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		var a domain.Application
		if err := rows.Scan(&a.ID, &a.UserID, &a.JobID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

// LoadSnapshot reads all three collections into one immutable snapshot.
func (s *Store) LoadSnapshot(ctx context.Context, since time.Time, limit int) (domain.Snapshot, error) {
	users, err := s.ListUsers(ctx, since, limit)
	if err != nil {
		return domain.Snapshot{}, err
	}
	jobs, err := s.ListJobs(ctx, since, limit)
	if err != nil {
		return domain.Snapshot{}, err
	}
	apps, err := s.ListApplications(ctx, since, limit)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{
		Users:        users,
		Jobs:         jobs,
		Applications: apps,
		LoadedAt:     time.Now().UTC(),
	}, nil
}
