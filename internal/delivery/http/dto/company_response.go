package dto

import (
	"time"

	"smart-apply/internal/domain/company"
	"smart-apply/internal/domain/job"
	"smart-apply/internal/usecase"

	"github.com/google/uuid"
)

type CompanyResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Image string    `json:"image"`
}

type CompanyAuthResponse struct {
	Company CompanyResponse `json:"company"`
	Token   string          `json:"token"`
}

func NewCompanyAuthResponse(c company.Company, token string) CompanyAuthResponse {
	return CompanyAuthResponse{
		Company: CompanyResponse{ID: c.ID, Name: c.Name, Email: c.Email, Image: c.Image},
		Token:   token,
	}
}

type JobResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Level       string    `json:"level"`
	Salary      int64     `json:"salary"`
	Visible     bool      `json:"visible"`
	PostedAt    time.Time `json:"posted_at"`
}

func NewJobResponse(j job.Job) JobResponse {
	return JobResponse{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		Category:    j.Category,
		Level:       j.Level,
		Salary:      j.Salary,
		Visible:     j.Visible,
		PostedAt:    j.PostedAt,
	}
}

type CompanyJobResponse struct {
	JobResponse
	Applicants int64 `json:"applicants"`
}

func NewCompanyJobResponses(items []usecase.JobWithApplicants) []CompanyJobResponse {
	out := make([]CompanyJobResponse, 0, len(items))
	for _, it := range items {
		out = append(out, CompanyJobResponse{JobResponse: NewJobResponse(it.Job), Applicants: it.Applicants})
	}
	return out
}
