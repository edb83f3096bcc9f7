// Package kpicache publishes the latest KPI summary where the
// presentation layer can read it without touching the computation path.
package kpicache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mash24/Job-Connect-sub000/internal/domain"
)

// Publisher pushes a freshly computed summary to the cache.
type Publisher interface {
	Publish(ctx context.Context, summary domain.Summary) error
}

// NoopPublisher is used when no Redis address is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, summary domain.Summary) error { return nil }

// RedisPublisher writes the summary as JSON under a "latest" key and a
// per-day key, both with the same TTL, in one pipeline round trip.
type RedisPublisher struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPublisher(client *redis.Client, ttl time.Duration) *RedisPublisher {
	return &RedisPublisher{client: client, ttl: ttl}
}

func (p *RedisPublisher) Publish(ctx context.Context, summary domain.Summary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	pipe := p.client.Pipeline()
	pipe.Set(ctx, latestKey, payload, p.ttl)
	pipe.Set(ctx, dailyKey(summary.GeneratedAt), payload, p.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline: %w", err)
	}
	return nil
}

const latestKey = "kpi:summary:latest"

func dailyKey(t time.Time) string {
	return "kpi:summary:" + t.UTC().Format("2006-01-02")
}
