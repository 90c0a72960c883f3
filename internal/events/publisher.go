// Package events publishes search lifecycle events to a Redis stream
// for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventType identifies the kind of event.
type EventType string

const (
	// EventTypeSearchCompleted is published after every successful
	// upstream search.
	EventTypeSearchCompleted EventType = "SEARCH_COMPLETED"
)

// SearchCompletedPayload is the stream payload for SEARCH_COMPLETED.
type SearchCompletedPayload struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	Timestamp    time.Time `json:"timestamp"`
	PartNumber   string    `json:"part_number"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	ResultCount  int       `json:"result_count"`
	Source       string    `json:"source"`
}

// RedisClient covers the Redis operations the publisher needs (kept
// narrow for testing).
type RedisClient interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// Publisher writes events to a single Redis stream. Publishing is
// best-effort: callers treat failures as non-fatal.
type Publisher struct {
	redis  RedisClient
	stream string
	logger *slog.Logger
}

func NewPublisher(client RedisClient, stream string, logger *slog.Logger) *Publisher {
	return &Publisher{
		redis:  client,
		stream: stream,
		logger: logger.With("component", "event_publisher"),
	}
}

// PublishSearchCompleted fills in event metadata and appends the event
// to the stream.
func (p *Publisher) PublishSearchCompleted(ctx context.Context, payload *SearchCompletedPayload) error {
	if payload.EventID == "" {
		payload.EventID = uuid.New().String()
	}
	if payload.EventType == "" {
		payload.EventType = string(EventTypeSearchCompleted)
	}
	if payload.Timestamp.IsZero() {
		payload.Timestamp = time.Now()
	}
	if payload.Source == "" {
		payload.Source = "rockauto-rest-api"
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"event_type": payload.EventType,
			"event_id":   payload.EventID,
			"payload":    string(data),
		},
	}

	if _, err := p.redis.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", p.stream, err)
	}

	p.logger.Debug("event published",
		"type", payload.EventType,
		"event_id", payload.EventID,
		"part_number", payload.PartNumber,
	)
	return nil
}
