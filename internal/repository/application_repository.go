package repository

import (
	"context"
	"errors"
	"time"

	"smart-apply/internal/database"
	"smart-apply/internal/domain/application"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// ApplicantRow is a ledger row joined with the applicant's profile, used by
// recruiter-facing views.
type ApplicantRow struct {
	Application application.Application
	UserName    string
	UserEmail   string
	UserImage   string
	ResumeURL   string
	JobTitle    string
	JobLocation string
}

// UserApplicationRow is a ledger row joined with job and company info, used
// by the applicant's own history view.
type UserApplicationRow struct {
	Application application.Application
	JobTitle    string
	JobLocation string
	CompanyName string
}

type ApplicationRepository interface {
	ExistsByUserAndJob(ctx context.Context, userID string, jobID uuid.UUID) (bool, error)
	Insert(ctx context.Context, a application.Application) error
	UpdateStatus(ctx context.Context, id uuid.UUID, companyID uuid.UUID, status application.Status) error
	ListByUser(ctx context.Context, userID string) ([]UserApplicationRow, error)
	FindByUsersAndJob(ctx context.Context, jobID uuid.UUID, userIDs []string) ([]ApplicantRow, error)
	ListQualifiedByJob(ctx context.Context, jobID uuid.UUID, minScore float64) ([]ApplicantRow, error)
	CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error)
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) ExistsByUserAndJob(ctx context.Context, userID string, jobID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE user_id = $1 AND job_id = $2)`,
		userID, jobID,
	).Scan(&exists)
	return exists, err
}

func (r *PostgresApplicationRepository) Insert(ctx context.Context, a application.Application) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AppliedAt.IsZero() {
		a.AppliedAt = time.Now().UTC()
	}
	if a.Status == "" {
		a.Status = application.StatusSubmitted
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (id, user_id, job_id, company_id, match_score, advice, status, applied_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.UserID, a.JobID, a.CompanyID, a.Score, a.Advice, a.Status, a.AppliedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return application.ErrAlreadyApplied
		}
		return err
	}
	return nil
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, companyID uuid.UUID, status application.Status) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE applications SET status = $1 WHERE id = $2 AND company_id = $3`,
		status, id, companyID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *PostgresApplicationRepository) ListByUser(ctx context.Context, userID string) ([]UserApplicationRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.user_id, a.job_id, a.company_id, a.match_score, a.advice, a.status, a.applied_at,
		        j.title, j.location, c.name
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 JOIN companies c ON c.id = a.company_id
		 WHERE a.user_id = $1
		 ORDER BY a.applied_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserApplicationRow
	for rows.Next() {
		var it UserApplicationRow
		if err := rows.Scan(
			&it.Application.ID, &it.Application.UserID, &it.Application.JobID,
			&it.Application.CompanyID, &it.Application.Score, &it.Application.Advice,
			&it.Application.Status, &it.Application.AppliedAt,
			&it.JobTitle, &it.JobLocation, &it.CompanyName,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PostgresApplicationRepository) FindByUsersAndJob(ctx context.Context, jobID uuid.UUID, userIDs []string) ([]ApplicantRow, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		applicantSelect+` WHERE a.job_id = $1 AND a.user_id = ANY($2)`,
		jobID, userIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanApplicants(rows)
}

func (r *PostgresApplicationRepository) ListQualifiedByJob(ctx context.Context, jobID uuid.UUID, minScore float64) ([]ApplicantRow, error) {
	rows, err := r.db.Query(ctx,
		applicantSelect+` WHERE a.job_id = $1 AND a.match_score >= $2
		 ORDER BY a.match_score DESC, a.applied_at ASC`,
		jobID, minScore,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanApplicants(rows)
}

func (r *PostgresApplicationRepository) CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE job_id = $1`, jobID).Scan(&n)
	return n, err
}

const applicantSelect = `SELECT a.id, a.user_id, a.job_id, a.company_id, a.match_score, a.advice, a.status, a.applied_at,
        u.name, u.email, u.image, u.resume_url, j.title, j.location
 FROM applications a
 JOIN users u ON u.id = a.user_id
 JOIN jobs j ON j.id = a.job_id`

func scanApplicants(rows database.Rows) ([]ApplicantRow, error) {
	var out []ApplicantRow
	for rows.Next() {
		var it ApplicantRow
		if err := rows.Scan(
			&it.Application.ID, &it.Application.UserID, &it.Application.JobID,
			&it.Application.CompanyID, &it.Application.Score, &it.Application.Advice,
			&it.Application.Status, &it.Application.AppliedAt,
			&it.UserName, &it.UserEmail, &it.UserImage, &it.ResumeURL,
			&it.JobTitle, &it.JobLocation,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
