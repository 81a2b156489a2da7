// Package events carries content change notifications over Redis pub/sub and
// keeps the fixed-window counters used for write rate limiting.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ContentChannel is the Redis channel all content events are published on
	ContentChannel = "quizzical:content"

	rateLimitPrefix = "ratelimit:"
)

// Type names a content event
type Type string

const (
	QuestionCreated       Type = "question.created"
	CategoryCreated       Type = "category.created"
	CategoryActiveChanged Type = "category.active_changed"
)

// Event is one content change
type Event struct {
	Type       Type            `json:"type"`
	Category   string          `json:"category"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// New builds an event with payload encoded as JSON
func New(eventType Type, category string, payload any) (Event, error) {
	event := Event{
		Type:       eventType,
		Category:   category,
		OccurredAt: time.Now().UTC(),
	}
	if payload == nil {
		return event, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	event.Payload = data
	return event, nil
}

// Manager publishes and consumes content events
type Manager struct {
	redis   *redis.Client
	channel string
}

// NewManager creates a new event manager on the content channel
func NewManager(redis *redis.Client) *Manager {
	return &Manager{redis: redis, channel: ContentChannel}
}

// Publish sends an event to every subscriber
func (m *Manager) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := m.redis.Publish(ctx, m.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

// Subscribe subscribes to content events
func (m *Manager) Subscribe(ctx context.Context) *redis.PubSub {
	return m.redis.Subscribe(ctx, m.channel)
}

// Forward subscribes to content events and calls fn for each one until ctx is
// done. Messages that do not decode are logged and skipped.
func (m *Manager) Forward(ctx context.Context, fn func(Event)) error {
	sub := m.Subscribe(ctx)
	defer sub.Close()

	// wait for the subscription to be confirmed
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", m.channel, err)
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.WarnContext(ctx, "Dropping malformed content event", "channel", msg.Channel, "error", err)
				continue
			}
			fn(event)
		}
	}
}

// RateLimit counts one hit for key in the current window and reports whether
// the limit is exceeded
func (m *Manager) RateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	key = rateLimitPrefix + key
	count, err := m.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	if count == 1 {
		if err := m.redis.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count > int64(limit), nil
}
