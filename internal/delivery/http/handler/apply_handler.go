package handler

import (
	"errors"

	"smart-apply/internal/delivery/http/dto"
	"smart-apply/internal/delivery/http/middleware"
	"smart-apply/internal/domain/job"
	"smart-apply/internal/domain/user"
	"smart-apply/internal/infrastructure/oracle"
	"smart-apply/internal/pkg/response"
	"smart-apply/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplyHandler struct {
	uc usecase.AdmissionUsecase
}

func NewApplyHandler(uc usecase.AdmissionUsecase) *ApplyHandler {
	return &ApplyHandler{uc: uc}
}

func (h *ApplyHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/jobs/:job_id/apply", h.Apply)
}

func (h *ApplyHandler) Apply(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(string)
	if !ok || userID == "" {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	res, err := h.uc.Apply(c.Context(), userID, jobID)
	if err != nil {
		return mapApplyError(err)
	}

	switch res.Outcome {
	case usecase.OutcomeRateLimited:
		return middleware.NewAppError(
			fiber.StatusTooManyRequests,
			"Too many attempts",
			dto.RateLimitedResponse{RetryAfterSeconds: int64(res.RetryAfter.Seconds())},
			nil,
		)
	case usecase.OutcomeAlreadyApplied:
		return middleware.NewAppError(fiber.StatusConflict, "Already applied", nil, nil)
	case usecase.OutcomeBlocked:
		out := dto.NewApplyResponse(res.Verdict, true, res.Replayed, res.CooldownExpiry)
		return response.Success(c, fiber.StatusOK, response.MessageOK, out)
	default:
		out := dto.NewApplyResponse(res.Verdict, false, false, res.CooldownExpiry)
		return response.Success(c, fiber.StatusOK, response.MessageOK, out)
	}
}

func mapApplyError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, job.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, user.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, oracle.ErrUnavailable), errors.Is(err, oracle.ErrMalformed):
		// Deliberately generic: internal oracle failure detail stays in logs.
		return middleware.NewAppError(fiber.StatusBadGateway, "Matching failed", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
