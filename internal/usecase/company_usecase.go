package usecase

import (
	"context"
	"errors"
	"strings"

	"smart-apply/internal/domain/company"
	"smart-apply/internal/domain/job"
	"smart-apply/internal/pkg/jwt"
	"smart-apply/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type JobWithApplicants struct {
	Job        job.Job
	Applicants int64
}

type PostJobInput struct {
	Title       string
	Description string
	Location    string
	Category    string
	Level       string
	Salary      int64
}

type CompanyUsecase interface {
	Register(ctx context.Context, name, email, password, image string) (company.Company, string, error)
	Login(ctx context.Context, email, password string) (company.Company, string, error)
	PostJob(ctx context.Context, companyID uuid.UUID, in PostJobInput) (job.Job, error)
	ListJobs(ctx context.Context, companyID uuid.UUID) ([]JobWithApplicants, error)
	ToggleVisibility(ctx context.Context, companyID uuid.UUID, jobID uuid.UUID) (job.Job, error)
}

type Companies struct {
	companies repository.CompanyRepository
	jobs      repository.JobRepository
	apps      repository.ApplicationRepository
	tokens    jwt.Service
}

func NewCompanyUsecase(companies repository.CompanyRepository, jobs repository.JobRepository, apps repository.ApplicationRepository, tokens jwt.Service) *Companies {
	return &Companies{companies: companies, jobs: jobs, apps: apps, tokens: tokens}
}

func (u *Companies) Register(ctx context.Context, name, email, password, image string) (company.Company, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return company.Company{}, "", ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return company.Company{}, "", err
	}

	c := company.Company{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Image:        image,
	}
	if err := u.companies.Insert(ctx, c); err != nil {
		return company.Company{}, "", err
	}

	token, err := u.tokens.Generate(c.ID.String(), jwt.RoleCompany, c.Email)
	if err != nil {
		return company.Company{}, "", err
	}
	return c, token, nil
}

func (u *Companies) Login(ctx context.Context, email, password string) (company.Company, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return company.Company{}, "", company.ErrBadCredential
	}

	c, err := u.companies.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return company.Company{}, "", company.ErrBadCredential
		}
		return company.Company{}, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) != nil {
		return company.Company{}, "", company.ErrBadCredential
	}

	token, err := u.tokens.Generate(c.ID.String(), jwt.RoleCompany, c.Email)
	if err != nil {
		return company.Company{}, "", err
	}
	return c, token, nil
}

func (u *Companies) PostJob(ctx context.Context, companyID uuid.UUID, in PostJobInput) (job.Job, error) {
	if companyID == uuid.Nil {
		return job.Job{}, ErrUnauthorized
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return job.Job{}, ErrInvalidInput
	}

	j := job.Job{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Location:    strings.TrimSpace(in.Location),
		Category:    strings.TrimSpace(in.Category),
		Level:       strings.TrimSpace(in.Level),
		Salary:      in.Salary,
		Visible:     true,
	}
	if err := u.jobs.Insert(ctx, j); err != nil {
		return job.Job{}, err
	}
	return j, nil
}

func (u *Companies) ListJobs(ctx context.Context, companyID uuid.UUID) ([]JobWithApplicants, error) {
	if companyID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	jobs, err := u.jobs.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	out := make([]JobWithApplicants, 0, len(jobs))
	for _, j := range jobs {
		n, err := u.apps.CountByJob(ctx, j.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, JobWithApplicants{Job: j, Applicants: n})
	}
	return out, nil
}

func (u *Companies) ToggleVisibility(ctx context.Context, companyID uuid.UUID, jobID uuid.UUID) (job.Job, error) {
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return job.Job{}, err
	}
	if j.CompanyID != companyID {
		return job.Job{}, ErrUnauthorized
	}

	j.Visible = !j.Visible
	if err := u.jobs.SetVisibility(ctx, jobID, j.Visible); err != nil {
		return job.Job{}, err
	}
	return j, nil
}
