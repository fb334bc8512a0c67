package repository

import (
	"context"
	"errors"
	"time"

	"smart-apply/internal/database"
	"smart-apply/internal/domain/company"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type CompanyRepository interface {
	Insert(ctx context.Context, c company.Company) error
	GetByEmail(ctx context.Context, email string) (company.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (company.Company, error)
}

type PostgresCompanyRepository struct {
	db database.DB
}

func NewPostgresCompanyRepository(db database.DB) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

func (r *PostgresCompanyRepository) Insert(ctx context.Context, c company.Company) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO companies (id, name, email, password_hash, image, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.Name, c.Email, c.PasswordHash, c.Image, c.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return company.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PostgresCompanyRepository) GetByEmail(ctx context.Context, email string) (company.Company, error) {
	return r.get(ctx, `SELECT id, name, email, password_hash, image, created_at FROM companies WHERE email = $1`, email)
}

func (r *PostgresCompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (company.Company, error) {
	return r.get(ctx, `SELECT id, name, email, password_hash, image, created_at FROM companies WHERE id = $1`, id)
}

func (r *PostgresCompanyRepository) get(ctx context.Context, query string, arg any) (company.Company, error) {
	var c company.Company
	err := r.db.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.Image, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrNotFound
		}
		return company.Company{}, err
	}
	return c, nil
}
