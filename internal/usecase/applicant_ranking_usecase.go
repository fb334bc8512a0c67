package usecase

import (
	"context"
	"fmt"

	"smart-apply/internal/config"
	"smart-apply/internal/repository"

	"github.com/google/uuid"
)

type ApplicantRankingUsecase interface {
	RankedApplicants(ctx context.Context, companyID uuid.UUID, jobID uuid.UUID, n int64) ([]repository.ApplicantRow, error)
	QualifiedApplicants(ctx context.Context, companyID uuid.UUID, jobID uuid.UUID) ([]repository.ApplicantRow, error)
}

// ApplicantRanking serves recruiter views. The ranked read goes through the
// ranking index and hydrates rows from the ledger, so an index member whose
// ledger row is missing is silently dropped — readers never observe a
// ranking entry without its application. The qualified read bypasses the
// index entirely (ledger-derived, usable for audit and recovery).
type ApplicantRanking struct {
	ranking *RankingIndex
	apps    repository.ApplicationRepository
	jobs    repository.JobRepository
	policy  config.AdmissionPolicy
}

func NewApplicantRankingUsecase(ranking *RankingIndex, apps repository.ApplicationRepository, jobs repository.JobRepository, policy config.AdmissionPolicy) *ApplicantRanking {
	return &ApplicantRanking{ranking: ranking, apps: apps, jobs: jobs, policy: policy}
}

func (u *ApplicantRanking) RankedApplicants(ctx context.Context, companyID uuid.UUID, jobID uuid.UUID, n int64) ([]repository.ApplicantRow, error) {
	if err := u.authorize(ctx, companyID, jobID); err != nil {
		return nil, err
	}

	members, err := u.ranking.TopN(ctx, jobID, n)
	if err != nil {
		return nil, fmt.Errorf("ranking read: %w", err)
	}
	if len(members) == 0 {
		return []repository.ApplicantRow{}, nil
	}

	rows, err := u.apps.FindByUsersAndJob(ctx, jobID, members)
	if err != nil {
		return nil, fmt.Errorf("ledger hydrate: %w", err)
	}

	byUser := make(map[string]repository.ApplicantRow, len(rows))
	for _, r := range rows {
		byUser[r.Application.UserID] = r
	}

	out := make([]repository.ApplicantRow, 0, len(members))
	for _, m := range members {
		if r, ok := byUser[m]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (u *ApplicantRanking) QualifiedApplicants(ctx context.Context, companyID uuid.UUID, jobID uuid.UUID) ([]repository.ApplicantRow, error) {
	if err := u.authorize(ctx, companyID, jobID); err != nil {
		return nil, err
	}

	rows, err := u.apps.ListQualifiedByJob(ctx, jobID, u.policy.QualifiedThreshold)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.ApplicantRow{}
	}
	return rows, nil
}

func (u *ApplicantRanking) authorize(ctx context.Context, companyID uuid.UUID, jobID uuid.UUID) error {
	jb, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if jb.CompanyID != companyID {
		return ErrUnauthorized
	}
	return nil
}
