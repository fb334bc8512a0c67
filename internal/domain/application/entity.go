package application

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusReviewed  Status = "reviewed"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusReviewed, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

var (
	ErrAlreadyApplied = errors.New("application already exists for user and job")
	ErrNotFound       = errors.New("application not found")
)

// Application is the durable ledger record. One per (user, job), enforced by
// a unique constraint; the constraint is the race-breaker for concurrent
// submissions.
type Application struct {
	ID        uuid.UUID
	UserID    string
	JobID     uuid.UUID
	CompanyID uuid.UUID
	Score     float64
	Advice    string
	Status    Status
	AppliedAt time.Time
}
