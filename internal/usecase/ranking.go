package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// tieBase spreads match scores so that a per-job insertion sequence can break
// ties: equal scores rank in arrival order. Scores closer than one point may
// still interleave, which is acceptable for 0-100 oracle scores.
const tieBase = 1 << 20

// RankingIndex keeps one sorted set per job, keyed by score best-first. It is
// derived state: the application ledger remains the source of truth and the
// index can be rebuilt from it.
type RankingIndex struct {
	store RankingStore
	seq   VersionStore
}

func NewRankingIndex(store RankingStore, seq VersionStore) *RankingIndex {
	return &RankingIndex{store: store, seq: seq}
}

func rankingKey(jobID uuid.UUID) string {
	return fmt.Sprintf("job:%s:applicants", jobID)
}

func (r *RankingIndex) Insert(ctx context.Context, jobID uuid.UUID, userID string, score float64) error {
	key := rankingKey(jobID)

	seq, err := r.seq.Bump(ctx, key+":seq")
	if err != nil {
		return fmt.Errorf("ranking sequence %s: %w", key, err)
	}
	combined := score*tieBase + float64(tieBase-seq%tieBase)

	if err := r.store.AddScore(ctx, key, userID, combined); err != nil {
		return fmt.Errorf("ranking insert %s: %w", key, err)
	}
	return nil
}

// TopN returns applicant identities best-first; n <= 0 returns all.
func (r *RankingIndex) TopN(ctx context.Context, jobID uuid.UUID, n int64) ([]string, error) {
	return r.store.TopMembers(ctx, rankingKey(jobID), n)
}
