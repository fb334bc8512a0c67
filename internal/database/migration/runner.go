package migration

import (
	"context"
	"fmt"

	"smart-apply/internal/database"
)

// Statements are idempotent; the runner takes a session advisory lock so two
// replicas starting at once do not race on DDL.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		resume_url TEXT NOT NULL DEFAULT '',
		resume_text TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS companies (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id UUID PRIMARY KEY,
		company_id UUID NOT NULL REFERENCES companies(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		level TEXT NOT NULL DEFAULT '',
		salary BIGINT NOT NULL DEFAULT 0,
		visible BOOLEAN NOT NULL DEFAULT true,
		posted_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		job_id UUID NOT NULL REFERENCES jobs(id),
		company_id UUID NOT NULL REFERENCES companies(id),
		match_score DOUBLE PRECISION NOT NULL,
		advice TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'submitted',
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT applications_user_job_unique UNIQUE (user_id, job_id)
	)`,
	`CREATE INDEX IF NOT EXISTS applications_job_score_idx
		ON applications (job_id, match_score DESC)`,
	`CREATE INDEX IF NOT EXISTS jobs_company_idx ON jobs (company_id)`,
}

const advisoryLockID = 584203917

type Runner struct{}

func (Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}

	if _, err := db.Exec(ctx, `SELECT pg_advisory_lock($1)`, advisoryLockID); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = db.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, advisoryLockID)
	}()

	for i, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d: %w", i, err)
		}
	}
	return nil
}
