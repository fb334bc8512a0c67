package handler

import (
	"errors"

	"smart-apply/internal/delivery/http/dto"
	"smart-apply/internal/delivery/http/middleware"
	"smart-apply/internal/domain/user"
	"smart-apply/internal/pkg/response"
	"smart-apply/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	applications usecase.ApplicationUsecase
	resumes      usecase.ResumeUsecase
}

func NewUserHandler(applications usecase.ApplicationUsecase, resumes usecase.ResumeUsecase) *UserHandler {
	return &UserHandler{applications: applications, resumes: resumes}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/users/me/applications", h.ListApplications)
	r.Put("/users/me/resume", h.UpdateResume)
}

func (h *UserHandler) ListApplications(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(string)
	if !ok || userID == "" {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	rows, err := h.applications.ListForUser(c.Context(), userID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserApplicationResponses(rows))
}

type updateResumeRequest struct {
	ResumeURL  string `json:"resume_url"`
	ResumeText string `json:"resume_text"`
}

// UpdateResume persists the new resume and invalidates every cached verdict
// for the caller. The object store upload and text extraction happen
// upstream; this endpoint receives the result.
func (h *UserHandler) UpdateResume(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(string)
	if !ok || userID == "" {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req updateResumeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	email, _ := c.Locals(middleware.CtxEmailKey).(string)
	name, _ := c.Locals(middleware.CtxNameKey).(string)
	dec, err := h.resumes.Update(c.Context(), userID, usecase.UpdateResumeInput{
		Email:      email,
		Name:       name,
		ResumeURL:  req.ResumeURL,
		ResumeText: req.ResumeText,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		case errors.Is(err, user.ErrNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
		}
	}
	if !dec.Allowed {
		return middleware.NewAppError(
			fiber.StatusTooManyRequests,
			"Resume upload limit reached",
			dto.RateLimitedResponse{RetryAfterSeconds: int64(dec.RetryAfter.Seconds())},
			nil,
		)
	}

	return response.Success(c, fiber.StatusOK, "Resume updated", nil)
}
