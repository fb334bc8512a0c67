package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"smart-apply/internal/config"
	"smart-apply/internal/domain/application"
	"smart-apply/internal/domain/verdict"
	"smart-apply/internal/infrastructure/oracle"
	"smart-apply/internal/repository"

	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeAccepted       Outcome = "accepted"
	OutcomeBlocked        Outcome = "blocked"
	OutcomeRateLimited    Outcome = "rate_limited"
	OutcomeAlreadyApplied Outcome = "already_applied"
)

// ApplyResult is the single structured answer of an admission attempt.
// RetryAfter is set for rate-limited outcomes, CooldownExpiry for blocked
// ones; Replayed marks a blocked verdict answered from cache during cooldown.
type ApplyResult struct {
	Outcome        Outcome
	Verdict        verdict.Verdict
	CooldownExpiry time.Time
	RetryAfter     time.Duration
	Replayed       bool
}

// Notifier is called after an application and its ranking entry are both
// written. Implemented by the websocket hub; nil disables notification.
type Notifier interface {
	ApplicationReceived(jobID uuid.UUID, userID string, score float64)
}

type AdmissionUsecase interface {
	Apply(ctx context.Context, userID string, jobID uuid.UUID) (ApplyResult, error)
}

// Admission orchestrates the apply pipeline: rate limit, duplicate check,
// cooldown replay, oracle call, cache write, threshold gate, success limit,
// then the ledger and ranking writes. Side effects happen strictly in that
// order and any store failure aborts the attempt.
type Admission struct {
	users     repository.UserRepository
	jobs      repository.JobRepository
	apps      repository.ApplicationRepository
	limiter   *RateLimiter
	cooldowns *CooldownGate
	verdicts  *VerdictCache
	ranking   *RankingIndex
	oracle    oracle.Scorer
	notifier  Notifier
	policy    config.AdmissionPolicy
	logger    *log.Logger
	now       func() time.Time
}

func NewAdmissionUsecase(
	users repository.UserRepository,
	jobs repository.JobRepository,
	apps repository.ApplicationRepository,
	limiter *RateLimiter,
	cooldowns *CooldownGate,
	verdicts *VerdictCache,
	ranking *RankingIndex,
	scorer oracle.Scorer,
	notifier Notifier,
	policy config.AdmissionPolicy,
	logger *log.Logger,
) *Admission {
	return &Admission{
		users:     users,
		jobs:      jobs,
		apps:      apps,
		limiter:   limiter,
		cooldowns: cooldowns,
		verdicts:  verdicts,
		ranking:   ranking,
		oracle:    scorer,
		notifier:  notifier,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
	}
}

func (u *Admission) Apply(ctx context.Context, userID string, jobID uuid.UUID) (ApplyResult, error) {
	if userID == "" || jobID == uuid.Nil {
		return ApplyResult{}, ErrInvalidInput
	}

	// 1. Attempt budget. The increment stands even when the attempt is
	// refused further down: attempts cost budget.
	dec, err := u.limiter.Allow(ctx, userID, PurposeAttempt, u.policy.AttemptLimit, u.policy.AttemptWindow)
	if err != nil {
		return ApplyResult{}, err
	}
	if !dec.Allowed {
		return ApplyResult{Outcome: OutcomeRateLimited, RetryAfter: dec.RetryAfter}, nil
	}

	// 2. Duplicate check before any external cost.
	exists, err := u.apps.ExistsByUserAndJob(ctx, userID, jobID)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("duplicate check: %w", err)
	}
	if exists {
		return ApplyResult{Outcome: OutcomeAlreadyApplied}, nil
	}

	// 3. Cooldown: replay the cached verdict instead of paying for a new
	// oracle call.
	remaining, onCooldown, err := u.cooldowns.Remaining(ctx, userID, jobID)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("cooldown check: %w", err)
	}
	if onCooldown {
		cached, found, err := u.verdicts.Get(ctx, userID, jobID)
		if err != nil {
			return ApplyResult{}, fmt.Errorf("verdict cache read: %w", err)
		}
		if !found {
			// Cooldown outlived the cached verdict; replay defaults rather
			// than paying for a call the cooldown exists to prevent.
			cached = verdict.Verdict{}.Normalize()
		}
		return ApplyResult{
			Outcome:        OutcomeBlocked,
			Verdict:        cached,
			CooldownExpiry: u.now().Add(remaining),
			Replayed:       true,
		}, nil
	}

	jb, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return ApplyResult{}, err
	}
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return ApplyResult{}, err
	}

	// 4. Oracle call. Failure is terminal: nothing below runs, nothing has
	// been written for this attempt beyond the rate counter.
	v, err := u.oracle.Score(ctx, usr.ResumeText, jb.Description)
	if err != nil {
		return ApplyResult{}, err
	}

	// 5. Cache the verdict for cooldown replay.
	if err := u.verdicts.Put(ctx, userID, jobID, v, u.policy.VerdictTTL); err != nil {
		return ApplyResult{}, fmt.Errorf("verdict cache write: %w", err)
	}

	// 6. Threshold gate.
	if v.Score < u.policy.AdmissionThreshold {
		if err := u.cooldowns.Set(ctx, userID, jobID, u.policy.CooldownDuration); err != nil {
			return ApplyResult{}, fmt.Errorf("cooldown set: %w", err)
		}
		return ApplyResult{
			Outcome:        OutcomeBlocked,
			Verdict:        v,
			CooldownExpiry: u.now().Add(u.policy.CooldownDuration),
		}, nil
	}

	// 7. Success budget. The oracle call is not refunded on refusal.
	dec, err = u.limiter.Allow(ctx, userID, PurposeSuccess, u.policy.SuccessLimit, u.policy.SuccessWindow)
	if err != nil {
		return ApplyResult{}, err
	}
	if !dec.Allowed {
		return ApplyResult{Outcome: OutcomeRateLimited, RetryAfter: dec.RetryAfter}, nil
	}

	// 8. Ledger then ranking. The unique constraint is the race-breaker for
	// concurrent attempts that both passed step 2.
	err = u.apps.Insert(ctx, application.Application{
		UserID:    userID,
		JobID:     jobID,
		CompanyID: jb.CompanyID,
		Score:     v.Score,
		Advice:    v.Advice,
		Status:    application.StatusSubmitted,
		AppliedAt: u.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, application.ErrAlreadyApplied) {
			return ApplyResult{Outcome: OutcomeAlreadyApplied}, nil
		}
		return ApplyResult{}, fmt.Errorf("ledger insert: %w", err)
	}

	if err := u.ranking.Insert(ctx, jobID, userID, v.Score); err != nil {
		// The ledger row stands; a retry converges on already-applied and
		// the index is rebuildable from the ledger.
		return ApplyResult{}, err
	}

	if u.notifier != nil {
		u.notifier.ApplicationReceived(jobID, userID, v.Score)
	}
	if u.logger != nil {
		u.logger.Printf("application accepted | user=%s job=%s score=%.1f", userID, jobID, v.Score)
	}

	return ApplyResult{Outcome: OutcomeAccepted, Verdict: v}, nil
}
