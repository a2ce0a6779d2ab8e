// Package alert рассылает уведомления о критических активностях.
package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/activity_tracker/internal/models"
	"github.com/shenikar/activity_tracker/internal/observability"
)

const (
	// QueueKey - список Redis, из которого читает Worker
	QueueKey = "activity_alerts"

	ReasonReported  = "reported"
	ReasonEscalated = "escalated"
)

// AlertEvent - уведомление о критической нерешённой активности
type AlertEvent struct {
	ActivityID   string             `json:"activity_id"`
	ActivityType string             `json:"activity_type"`
	Location     string             `json:"location"`
	Priority     models.Priority    `json:"priority"`
	Status       models.Status      `json:"status"`
	Coordinates  models.Coordinates `json:"coordinates"`
	AlertRadius  int                `json:"alert_radius"`
	Reason       string             `json:"reason"`
	Timestamp    time.Time          `json:"timestamp"`
}

// NewAlertEvent строит событие по активности
func NewAlertEvent(a models.Activity, reason string, at time.Time) AlertEvent {
	return AlertEvent{
		ActivityID:   a.ID,
		ActivityType: a.ActivityType,
		Location:     a.Location,
		Priority:     a.Priority,
		Status:       a.Status,
		Coordinates:  a.Coordinates,
		AlertRadius:  a.AlertRadius,
		Reason:       reason,
		Timestamp:    at,
	}
}

// Publisher - интерфейс для публикации уведомлений
type Publisher interface {
	Publish(ctx context.Context, event AlertEvent) error
}

// QueueClient - подмножество *redis.Client для очереди уведомлений
type QueueClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// RedisPublisher кладёт события в очередь Redis
type RedisPublisher struct {
	client  QueueClient
	metrics *observability.Metrics
}

func NewRedisPublisher(client QueueClient, metrics *observability.Metrics) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		metrics: metrics,
	}
}

// Publish публикует событие в очередь Redis
func (p *RedisPublisher) Publish(ctx context.Context, event AlertEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		p.metrics.AlertsPublished.WithLabelValues("redis", "error").Inc()
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	// LPUSH в голову списка, Worker забирает с хвоста через BRPOP
	if err := p.client.LPush(ctx, QueueKey, payload).Err(); err != nil {
		p.metrics.AlertsPublished.WithLabelValues("redis", "error").Inc()
		return fmt.Errorf("failed to publish alert event to Redis: %w", err)
	}
	p.metrics.AlertsPublished.WithLabelValues("redis", "success").Inc()
	return nil
}

// NopPublisher ничего не публикует
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, AlertEvent) error { return nil }
