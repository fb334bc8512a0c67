package handler

import (
	"errors"
	"strconv"

	"smart-apply/internal/delivery/http/dto"
	"smart-apply/internal/delivery/http/middleware"
	"smart-apply/internal/domain/job"
	"smart-apply/internal/pkg/response"
	"smart-apply/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplicantHandler struct {
	uc usecase.ApplicantRankingUsecase
}

func NewApplicantHandler(uc usecase.ApplicantRankingUsecase) *ApplicantHandler {
	return &ApplicantHandler{uc: uc}
}

func (h *ApplicantHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/jobs/:job_id/applicants", h.Ranked)
	r.Get("/jobs/:job_id/applicants/qualified", h.Qualified)
}

func (h *ApplicantHandler) Ranked(c fiber.Ctx) error {
	companyID, jobID, err := applicantParams(c)
	if err != nil {
		return err
	}

	var limit int64
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 0 {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
		}
	}

	rows, err := h.uc.RankedApplicants(c.Context(), companyID, jobID, limit)
	if err != nil {
		return mapApplicantError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicantResponses(rows))
}

func (h *ApplicantHandler) Qualified(c fiber.Ctx) error {
	companyID, jobID, err := applicantParams(c)
	if err != nil {
		return err
	}

	rows, err := h.uc.QualifiedApplicants(c.Context(), companyID, jobID)
	if err != nil {
		return mapApplicantError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicantResponses(rows))
}

func applicantParams(c fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	raw, ok := c.Locals(middleware.CtxCompanyIDKey).(string)
	if !ok || raw == "" {
		return uuid.Nil, uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	companyID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	}

	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}
	return companyID, jobID, nil
}

func mapApplicantError(err error) error {
	switch {
	case errors.Is(err, job.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
