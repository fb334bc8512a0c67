package usecase

import (
	"context"
	"fmt"
	"time"

	"smart-apply/internal/domain/verdict"

	"github.com/google/uuid"
)

// VerdictCache stores the last oracle verdict per (identity, job) under a
// key that embeds the identity's resume version. Invalidation after a resume
// change is a single version bump: every previously written key becomes
// unreachable without enumerating jobs.
type VerdictCache struct {
	store    VerdictStore
	versions VersionStore
}

func NewVerdictCache(store VerdictStore, versions VersionStore) *VerdictCache {
	return &VerdictCache{store: store, versions: versions}
}

func resumeVersionKey(userID string) string {
	return "resume:version:" + userID
}

func (c *VerdictCache) key(ctx context.Context, userID string, jobID uuid.UUID) (string, error) {
	ver, err := c.versions.Current(ctx, resumeVersionKey(userID))
	if err != nil {
		return "", fmt.Errorf("resume version for %s: %w", userID, err)
	}
	return fmt.Sprintf("verdict:%s:v%d:%s", userID, ver, jobID), nil
}

func (c *VerdictCache) Get(ctx context.Context, userID string, jobID uuid.UUID) (verdict.Verdict, bool, error) {
	key, err := c.key(ctx, userID, jobID)
	if err != nil {
		return verdict.Verdict{}, false, err
	}

	var v verdict.Verdict
	found, err := c.store.GetJSON(ctx, key, &v)
	if err != nil || !found {
		return verdict.Verdict{}, false, err
	}
	return v.Normalize(), true, nil
}

func (c *VerdictCache) Put(ctx context.Context, userID string, jobID uuid.UUID, v verdict.Verdict, ttl time.Duration) error {
	key, err := c.key(ctx, userID, jobID)
	if err != nil {
		return err
	}
	return c.store.SetJSON(ctx, key, v, ttl)
}

// InvalidateAll makes every cached verdict for the identity unreachable.
// Called after a resume change has been durably persisted, never before.
func (c *VerdictCache) InvalidateAll(ctx context.Context, userID string) error {
	_, err := c.versions.Bump(ctx, resumeVersionKey(userID))
	return err
}
