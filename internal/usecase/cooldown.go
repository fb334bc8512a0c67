package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CooldownGate suppresses repeat low-score attempts per (identity, job).
// A record exists only after a blocking verdict and clears itself via TTL;
// there is no manual clear.
type CooldownGate struct {
	store CooldownStore
}

func NewCooldownGate(store CooldownStore) *CooldownGate {
	return &CooldownGate{store: store}
}

func cooldownKey(userID string, jobID uuid.UUID) string {
	return fmt.Sprintf("cooldown:%s:%s", userID, jobID)
}

func (g *CooldownGate) Remaining(ctx context.Context, userID string, jobID uuid.UUID) (time.Duration, bool, error) {
	return g.store.RemainingTTL(ctx, cooldownKey(userID, jobID))
}

func (g *CooldownGate) Set(ctx context.Context, userID string, jobID uuid.UUID, d time.Duration) error {
	return g.store.SetTTL(ctx, cooldownKey(userID, jobID), "1", d)
}
