package usecase

import (
	"context"

	"smart-apply/internal/domain/application"
	"smart-apply/internal/repository"

	"github.com/google/uuid"
)

type ApplicationUsecase interface {
	ListForUser(ctx context.Context, userID string) ([]repository.UserApplicationRow, error)
	ChangeStatus(ctx context.Context, companyID uuid.UUID, applicationID uuid.UUID, status application.Status) error
}

// Applications covers the workflows around the ledger that are not admission
// decisions: the applicant's own history and recruiter status changes.
// Applications are never deleted here.
type Applications struct {
	apps repository.ApplicationRepository
}

func NewApplicationUsecase(apps repository.ApplicationRepository) *Applications {
	return &Applications{apps: apps}
}

func (u *Applications) ListForUser(ctx context.Context, userID string) ([]repository.UserApplicationRow, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	rows, err := u.apps.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.UserApplicationRow{}
	}
	return rows, nil
}

func (u *Applications) ChangeStatus(ctx context.Context, companyID uuid.UUID, applicationID uuid.UUID, status application.Status) error {
	if companyID == uuid.Nil || applicationID == uuid.Nil {
		return ErrInvalidInput
	}
	if !status.Valid() {
		return ErrInvalidInput
	}
	return u.apps.UpdateStatus(ctx, applicationID, companyID, status)
}
