package usecase

import (
	"context"
	"fmt"
	"time"
)

const (
	PurposeAttempt      = "attempt"
	PurposeSuccess      = "success"
	PurposeResumeUpload = "resume-upload"
)

type RateDecision struct {
	Allowed    bool
	Count      int64
	RetryAfter time.Duration
}

// RateLimiter implements fixed-window limits per (identity, purpose). The
// increment is never rolled back: refused attempts still consume budget.
type RateLimiter struct {
	counters CounterStore
}

func NewRateLimiter(counters CounterStore) *RateLimiter {
	return &RateLimiter{counters: counters}
}

func (l *RateLimiter) Allow(ctx context.Context, identity string, purpose string, limit int, window time.Duration) (RateDecision, error) {
	key := fmt.Sprintf("rate:%s:%s", purpose, identity)

	count, remaining, err := l.counters.IncrWindow(ctx, key, window)
	if err != nil {
		return RateDecision{}, fmt.Errorf("rate counter %s: %w", key, err)
	}

	if count > int64(limit) {
		return RateDecision{Allowed: false, Count: count, RetryAfter: remaining}, nil
	}
	return RateDecision{Allowed: true, Count: count}, nil
}
