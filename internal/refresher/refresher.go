// Package refresher reloads the dashboard snapshot on a cron schedule.
// The analytics engine itself defines no timers; this is the only
// background loop in the service.
package refresher

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Refreshable is anything that can reload its snapshot.
type Refreshable interface {
	Refresh(ctx context.Context) error
}

// Refresher sleeps until the next scheduled fire time, triggers a
// refresh, and repeats until its context is cancelled.
type Refresher struct {
	schedule cron.Schedule
	loc      *time.Location
	target   Refreshable
	clock    func() time.Time
}

// New parses a standard 5-field cron expression in the given timezone.
func New(expression, timezone string, target Refreshable) (*Refresher, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	return &Refresher{
		schedule: schedule,
		loc:      loc,
		target:   target,
		clock:    time.Now,
	}, nil
}

// Run blocks until ctx is cancelled. A failed refresh is logged and the
// loop keeps going; the dashboard serves the previous snapshot until the
// next successful reload.
func (r *Refresher) Run(ctx context.Context) error {
	log.Printf("refresher: started, next fire at %s", r.schedule.Next(r.clock().In(r.loc)))

	for {
		now := r.clock().In(r.loc)
		next := r.schedule.Next(now)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Println("refresher: stopped")
			return ctx.Err()
		case <-timer.C:
			if err := r.target.Refresh(ctx); err != nil {
				log.Printf("refresher: refresh error: %v", err)
			}
		}
	}
}
