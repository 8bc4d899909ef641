// Package events carries domain events from the appeal workflow to other
// subsystems over Redis Pub/Sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher emits domain events. Delivery is best-effort.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// Envelope is the wire form of an event on the channel.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Decode unmarshals the payload into v.
func (e Envelope) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// RedisPublisher publishes envelopes on a single Redis channel.
type RedisPublisher struct {
	Redis   *redis.Client
	Channel string
	Now     func() time.Time
}

// NewRedisPublisher Constructor
func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{Redis: rdb, Channel: channel, Now: time.Now}
}

// Publish implements Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	msg, err := json.Marshal(Envelope{
		Type:       eventType,
		OccurredAt: p.Now().UTC(),
		Payload:    raw,
	})
	if err != nil {
		return err
	}

	if err := p.Redis.Publish(ctx, p.Channel, msg).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}
