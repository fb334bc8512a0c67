package usecase

import (
	"context"
	"strings"

	"smart-apply/internal/config"
	"smart-apply/internal/domain/user"
	"smart-apply/internal/repository"
)

type UpdateResumeInput struct {
	Email      string
	Name       string
	ResumeURL  string
	ResumeText string
}

type ResumeUsecase interface {
	Update(ctx context.Context, userID string, in UpdateResumeInput) (RateDecision, error)
}

// Resume handles resume replacement. The caller's row is provisioned from the
// token profile on first contact; invalidation runs only after the new resume
// is durably persisted: a failed write must leave the old cached verdicts
// reachable, since they still describe the stored resume.
type Resume struct {
	users    repository.UserRepository
	limiter  *RateLimiter
	verdicts *VerdictCache
	policy   config.AdmissionPolicy
}

func NewResumeUsecase(users repository.UserRepository, limiter *RateLimiter, verdicts *VerdictCache, policy config.AdmissionPolicy) *Resume {
	return &Resume{users: users, limiter: limiter, verdicts: verdicts, policy: policy}
}

func (u *Resume) Update(ctx context.Context, userID string, in UpdateResumeInput) (RateDecision, error) {
	if userID == "" || strings.TrimSpace(in.ResumeURL) == "" {
		return RateDecision{}, ErrInvalidInput
	}

	dec, err := u.limiter.Allow(ctx, userID, PurposeResumeUpload, u.policy.ResumeUploadLimit, u.policy.ResumeUploadWindow)
	if err != nil {
		return RateDecision{}, err
	}
	if !dec.Allowed {
		return dec, nil
	}

	if err := u.users.Ensure(ctx, user.User{ID: userID, Email: in.Email, Name: in.Name}); err != nil {
		return dec, err
	}
	if err := u.users.UpdateResume(ctx, userID, in.ResumeURL, in.ResumeText); err != nil {
		return dec, err
	}

	// Persisted; old verdicts now describe a resume that no longer exists.
	if err := u.verdicts.InvalidateAll(ctx, userID); err != nil {
		return dec, err
	}
	return dec, nil
}
