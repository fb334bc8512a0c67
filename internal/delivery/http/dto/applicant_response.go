package dto

import (
	"time"

	"smart-apply/internal/repository"

	"github.com/google/uuid"
)

type ApplicantResponse struct {
	ApplicationID uuid.UUID `json:"application_id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Image         string    `json:"image"`
	ResumeURL     string    `json:"resume_url"`
	MatchScore    float64   `json:"match_score"`
	Status        string    `json:"status"`
	AppliedAt     time.Time `json:"applied_at"`
}

func NewApplicantResponses(rows []repository.ApplicantRow) []ApplicantResponse {
	out := make([]ApplicantResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ApplicantResponse{
			ApplicationID: r.Application.ID,
			UserID:        r.Application.UserID,
			Name:          r.UserName,
			Email:         r.UserEmail,
			Image:         r.UserImage,
			ResumeURL:     r.ResumeURL,
			MatchScore:    r.Application.Score,
			Status:        string(r.Application.Status),
			AppliedAt:     r.Application.AppliedAt,
		})
	}
	return out
}

type UserApplicationResponse struct {
	ApplicationID uuid.UUID `json:"application_id"`
	JobID         uuid.UUID `json:"job_id"`
	JobTitle      string    `json:"job_title"`
	JobLocation   string    `json:"job_location"`
	CompanyName   string    `json:"company_name"`
	MatchScore    float64   `json:"match_score"`
	Status        string    `json:"status"`
	AppliedAt     time.Time `json:"applied_at"`
}

func NewUserApplicationResponses(rows []repository.UserApplicationRow) []UserApplicationResponse {
	out := make([]UserApplicationResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, UserApplicationResponse{
			ApplicationID: r.Application.ID,
			JobID:         r.Application.JobID,
			JobTitle:      r.JobTitle,
			JobLocation:   r.JobLocation,
			CompanyName:   r.CompanyName,
			MatchScore:    r.Application.Score,
			Status:        string(r.Application.Status),
			AppliedAt:     r.Application.AppliedAt,
		})
	}
	return out
}
