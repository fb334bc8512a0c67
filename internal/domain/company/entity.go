package company

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("company not found")
	ErrEmailTaken    = errors.New("company email already registered")
	ErrBadCredential = errors.New("invalid email or password")
)

type Company struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Image        string
	CreatedAt    time.Time
}
