// Package testutil provides fixtures shared by the package tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"deliberate/backend/internal/models"
	"deliberate/backend/internal/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewDB opens a migrated in-memory sqlite database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := storage.Open("sqlite", dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := storage.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewStore returns a storage service over a fresh database.
func NewStore(t testing.TB) *storage.Service {
	t.Helper()
	return storage.NewStorageService(NewDB(t), zap.NewNop())
}

// Clock is a manually advanced time source.
type Clock struct {
	t atomic.Pointer[time.Time]
}

// NewClock returns a clock frozen at start.
func NewClock(start time.Time) *Clock {
	c := &Clock{}
	c.Set(start)
	return c
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time { return *c.t.Load() }

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) { c.t.Store(&t) }

// Advance moves the clock forward by d and returns the new time.
func (c *Clock) Advance(d time.Duration) time.Time {
	n := c.Now().Add(d)
	c.Set(n)
	return n
}

// SeedModerator stores a moderator with the given display name.
func SeedModerator(t testing.TB, s storage.Storage, name string) *models.Moderator {
	t.Helper()
	m := &models.Moderator{DisplayName: name}
	if err := s.SaveModerator(context.Background(), m); err != nil {
		t.Fatalf("seed moderator: %v", err)
	}
	return m
}

// SeedAction stores an ACTIVE moderation action against a post.
func SeedAction(t testing.TB, s storage.Storage, mutate ...func(*models.ModerationAction)) *models.ModerationAction {
	t.Helper()
	a := &models.ModerationAction{
		TargetType: "post",
		TargetID:   "post-42",
		ActionType: "REMOVE_CONTENT",
		Severity:   "MEDIUM",
		Reasoning:  "Personal attack against another participant.",
		Status:     models.ActionStatusActive,
	}
	for _, fn := range mutate {
		fn(a)
	}
	if err := s.SaveModerationAction(context.Background(), a); err != nil {
		t.Fatalf("seed moderation action: %v", err)
	}
	return a
}
