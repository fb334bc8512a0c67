package usecase

import (
	"context"
	"errors"
	"testing"

	"smart-apply/internal/domain/application"
	"smart-apply/internal/domain/company"
	"smart-apply/internal/domain/job"
	"smart-apply/internal/pkg/jwt"

	"github.com/google/uuid"
)

type stubCompanyRepo struct {
	byEmail map[string]company.Company
}

func (s *stubCompanyRepo) Insert(_ context.Context, c company.Company) error {
	if _, ok := s.byEmail[c.Email]; ok {
		return company.ErrEmailTaken
	}
	s.byEmail[c.Email] = c
	return nil
}

func (s *stubCompanyRepo) GetByEmail(_ context.Context, email string) (company.Company, error) {
	c, ok := s.byEmail[email]
	if !ok {
		return company.Company{}, company.ErrNotFound
	}
	return c, nil
}

func (s *stubCompanyRepo) GetByID(_ context.Context, id uuid.UUID) (company.Company, error) {
	for _, c := range s.byEmail {
		if c.ID == id {
			return c, nil
		}
	}
	return company.Company{}, company.ErrNotFound
}

type stubTokenService struct{}

func (stubTokenService) Generate(subjectID string, role jwt.Role, _ string) (string, error) {
	return "token-" + subjectID + "-" + string(role), nil
}

func (stubTokenService) Validate(string) (jwt.Claims, error) {
	return jwt.Claims{}, jwt.ErrTokenInvalid
}

func applicationForJob(jobID uuid.UUID, companyID uuid.UUID, userID string) application.Application {
	return application.Application{
		ID:        uuid.New(),
		UserID:    userID,
		JobID:     jobID,
		CompanyID: companyID,
		Score:     80,
		Status:    application.StatusSubmitted,
	}
}

func newCompanyFixture() (*Companies, *stubCompanyRepo, *stubJobRepo, *stubAppRepo) {
	companies := &stubCompanyRepo{byEmail: map[string]company.Company{}}
	jobs := &stubJobRepo{jobs: map[uuid.UUID]job.Job{}}
	apps := &stubAppRepo{}
	return NewCompanyUsecase(companies, jobs, apps, stubTokenService{}), companies, jobs, apps
}

func TestCompanyRegisterAndLogin(t *testing.T) {
	uc, _, _, _ := newCompanyFixture()
	ctx := context.Background()

	c, token, err := uc.Register(ctx, "Acme", "HR@Acme.example", "s3cret", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if c.Email != "hr@acme.example" {
		t.Errorf("expected lowercased email, got %q", c.Email)
	}
	if c.PasswordHash == "s3cret" || c.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if token == "" {
		t.Error("expected a token on registration")
	}

	got, token, err := uc.Login(ctx, "hr@acme.example", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if got.ID != c.ID || token == "" {
		t.Errorf("unexpected login result: id=%s token=%q", got.ID, token)
	}
}

func TestCompanyLoginBadCredential(t *testing.T) {
	uc, _, _, _ := newCompanyFixture()
	ctx := context.Background()

	if _, _, err := uc.Register(ctx, "Acme", "hr@acme.example", "s3cret", ""); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, _, err := uc.Login(ctx, "hr@acme.example", "wrong"); !errors.Is(err, company.ErrBadCredential) {
		t.Errorf("expected ErrBadCredential for wrong password, got %v", err)
	}
	if _, _, err := uc.Login(ctx, "nobody@acme.example", "s3cret"); !errors.Is(err, company.ErrBadCredential) {
		t.Errorf("expected ErrBadCredential for unknown email, got %v", err)
	}
}

func TestCompanyPostJobAndList(t *testing.T) {
	uc, _, _, apps := newCompanyFixture()
	ctx := context.Background()
	companyID := uuid.New()

	j, err := uc.PostJob(ctx, companyID, PostJobInput{
		Title:       "Backend Engineer",
		Description: "go and postgres",
		Location:    "Jakarta",
		Salary:      1200,
	})
	if err != nil {
		t.Fatalf("PostJob returned error: %v", err)
	}
	if !j.Visible {
		t.Error("new jobs should start visible")
	}

	apps.inserted = append(apps.inserted, applicationForJob(j.ID, companyID, "u1"), applicationForJob(j.ID, companyID, "u2"))

	list, err := uc.ListJobs(ctx, companyID)
	if err != nil {
		t.Fatalf("ListJobs returned error: %v", err)
	}
	if len(list) != 1 || list[0].Applicants != 2 {
		t.Errorf("expected 1 job with 2 applicants, got %+v", list)
	}
}

func TestCompanyPostJobValidation(t *testing.T) {
	uc, _, _, _ := newCompanyFixture()
	ctx := context.Background()

	if _, err := uc.PostJob(ctx, uuid.Nil, PostJobInput{Title: "x", Description: "y"}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for nil company, got %v", err)
	}
	if _, err := uc.PostJob(ctx, uuid.New(), PostJobInput{Title: "  ", Description: "y"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for blank title, got %v", err)
	}
}

func TestCompanyToggleVisibilityOwnership(t *testing.T) {
	uc, _, jobs, _ := newCompanyFixture()
	ctx := context.Background()
	owner := uuid.New()
	jobID := uuid.New()
	jobs.jobs[jobID] = job.Job{ID: jobID, CompanyID: owner, Visible: true}

	if _, err := uc.ToggleVisibility(ctx, uuid.New(), jobID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for foreign job, got %v", err)
	}

	j, err := uc.ToggleVisibility(ctx, owner, jobID)
	if err != nil {
		t.Fatalf("ToggleVisibility returned error: %v", err)
	}
	if j.Visible {
		t.Error("expected visibility to flip off")
	}
	if jobs.jobs[jobID].Visible {
		t.Error("expected persisted visibility to flip off")
	}
}
