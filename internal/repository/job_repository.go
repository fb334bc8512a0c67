package repository

import (
	"context"
	"errors"
	"time"

	"smart-apply/internal/database"
	"smart-apply/internal/domain/job"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type JobRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	Insert(ctx context.Context, j job.Job) error
	SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]job.Job, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	var j job.Job
	err := r.db.QueryRow(ctx,
		`SELECT id, company_id, title, description, location, category, level, salary, visible, posted_at
		 FROM jobs WHERE id = $1`,
		id,
	).Scan(&j.ID, &j.CompanyID, &j.Title, &j.Description, &j.Location, &j.Category, &j.Level, &j.Salary, &j.Visible, &j.PostedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) Insert(ctx context.Context, j job.Job) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.PostedAt.IsZero() {
		j.PostedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO jobs (id, company_id, title, description, location, category, level, salary, visible, posted_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		j.ID, j.CompanyID, j.Title, j.Description, j.Location, j.Category, j.Level, j.Salary, j.Visible, j.PostedAt,
	)
	return err
}

func (r *PostgresJobRepository) SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error {
	affected, err := r.db.Exec(ctx, `UPDATE jobs SET visible = $1 WHERE id = $2`, visible, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]job.Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, company_id, title, description, location, category, level, salary, visible, posted_at
		 FROM jobs WHERE company_id = $1 ORDER BY posted_at DESC`,
		companyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []job.Job
	for rows.Next() {
		var j job.Job
		if err := rows.Scan(&j.ID, &j.CompanyID, &j.Title, &j.Description, &j.Location, &j.Category, &j.Level, &j.Salary, &j.Visible, &j.PostedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
