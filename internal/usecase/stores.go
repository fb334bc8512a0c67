package usecase

import (
	"context"
	"time"
)

// Store contracts for the shared mutable state of the admission pipeline.
// Every method is one atomic operation against the backing store; callers
// never get read-modify-write isolation beyond that. Implemented by
// infrastructure/cache (Redis in production, Memory in tests).

type CounterStore interface {
	// IncrWindow increments a fixed-window counter, arming the window expiry
	// on the first increment, and reports the post-increment count and the
	// window's remaining time to live.
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type CooldownStore interface {
	SetTTL(ctx context.Context, key string, value string, ttl time.Duration) error
	RemainingTTL(ctx context.Context, key string) (time.Duration, bool, error)
}

type VerdictStore interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type VersionStore interface {
	Current(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string) (int64, error)
}

type RankingStore interface {
	AddScore(ctx context.Context, key string, member string, score float64) error
	// TopMembers returns members ordered by score descending; n <= 0 means
	// the full list.
	TopMembers(ctx context.Context, key string, n int64) ([]string, error)
}
