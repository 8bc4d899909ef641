package events

import (
	"context"
	"testing"
	"time"

	"deliberate/backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisPublisher_RoundTrip(t *testing.T) {
	// Arrange
	_, client := newMiniRedisClient(t)
	pub := NewRedisPublisher(client, "test:events")
	fixed := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	pub.Now = func() time.Time { return fixed }

	listener := NewListener(client, "test:events", zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Envelope, 1)
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- listener.Run(ctx, func(_ context.Context, ev Envelope) { received <- ev }, ready)
	}()
	<-ready

	// Act
	err := pub.Publish(ctx, models.EventTypeTrustReevaluation, models.TrustReevaluation{
		UserID:   "user-1",
		Reason:   models.TrustReasonAppealUpheld,
		AppealID: "appeal-1",
	})
	require.NoError(t, err)

	// Assert
	select {
	case ev := <-received:
		assert.Equal(t, models.EventTypeTrustReevaluation, ev.Type)
		assert.True(t, fixed.Equal(ev.OccurredAt))
		var payload models.TrustReevaluation
		require.NoError(t, ev.Decode(&payload))
		assert.Equal(t, "user-1", payload.UserID)
		assert.Equal(t, models.TrustReasonAppealUpheld, payload.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}
}

func TestRedisPublisher_TransportFailure(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	pub := NewRedisPublisher(client, "test:events")
	mr.Close()

	err := pub.Publish(context.Background(), "x", map[string]string{"a": "b"})
	assert.Error(t, err)
}

func TestRedisPublisher_EncodeFailure(t *testing.T) {
	_, client := newMiniRedisClient(t)
	pub := NewRedisPublisher(client, "test:events")

	err := pub.Publish(context.Background(), "x", make(chan int))
	assert.Error(t, err)
}
