package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Handler processes one received event.
type Handler func(ctx context.Context, ev Envelope)

// Listener subscribes to the events channel and dispatches envelopes.
type Listener struct {
	Redis   *redis.Client
	Channel string
	Logger  *zap.Logger
}

// NewListener Constructor
func NewListener(rdb *redis.Client, channel string, logger *zap.Logger) *Listener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listener{Redis: rdb, Channel: channel, Logger: logger.Named("events")}
}

// Run blocks, calling h for every event until ctx is cancelled. ready, if
// not nil, is closed once the subscription is confirmed.
func (l *Listener) Run(ctx context.Context, h Handler, ready chan<- struct{}) error {
	pubsub := l.Redis.Subscribe(ctx, l.Channel)
	defer pubsub.Close()

	// Receive waits for the subscription confirmation.
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	if ready != nil {
		close(ready)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				l.Logger.Warn("dropping malformed event", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			h(ctx, ev)
		}
	}
}
