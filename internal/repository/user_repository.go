package repository

import (
	"context"
	"errors"
	"time"

	"smart-apply/internal/database"
	"smart-apply/internal/domain/user"

	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	Ensure(ctx context.Context, u user.User) error
	UpdateResume(ctx context.Context, id string, resumeURL string, resumeText string) error
}

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, name, image, resume_url, resume_text, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Image, &u.ResumeURL, &u.ResumeText, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

// Ensure records a user the first time the identity provider hands us their
// key. Non-blank profile fields are refreshed on conflict; resume fields are
// not touched (they are owned by the resume-update flow).
func (r *PostgresUserRepository) Ensure(ctx context.Context, u user.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, name, image)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (id) DO UPDATE SET
			email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
			name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
			image = COALESCE(NULLIF(EXCLUDED.image, ''), users.image),
			updated_at = now()`,
		u.ID, u.Email, u.Name, u.Image,
	)
	return err
}

func (r *PostgresUserRepository) UpdateResume(ctx context.Context, id string, resumeURL string, resumeText string) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE users SET resume_url = $1, resume_text = $2, updated_at = $3 WHERE id = $4`,
		resumeURL, resumeText, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return user.ErrNotFound
	}
	return nil
}
