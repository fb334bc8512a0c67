package user

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// ID is the opaque key issued by the external identity provider; this service
// references users but never creates their identity.
type User struct {
	ID         string
	Email      string
	Name       string
	Image      string
	ResumeURL  string
	ResumeText string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
