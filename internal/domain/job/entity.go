package job

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("job not found")

type Job struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	Title       string
	Description string
	Location    string
	Category    string
	Level       string
	Salary      int64
	Visible     bool
	PostedAt    time.Time
}
