package handler

import (
	"errors"

	"smart-apply/internal/delivery/http/dto"
	"smart-apply/internal/delivery/http/middleware"
	"smart-apply/internal/domain/application"
	"smart-apply/internal/domain/company"
	"smart-apply/internal/domain/job"
	"smart-apply/internal/pkg/response"
	"smart-apply/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CompanyHandler struct {
	companies    usecase.CompanyUsecase
	applications usecase.ApplicationUsecase
}

func NewCompanyHandler(companies usecase.CompanyUsecase, applications usecase.ApplicationUsecase) *CompanyHandler {
	return &CompanyHandler{companies: companies, applications: applications}
}

func (h *CompanyHandler) RegisterAuthRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/companies/register", h.Register)
	r.Post("/companies/login", h.Login)
}

func (h *CompanyHandler) RegisterProtectedRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/jobs", h.PostJob)
	r.Get("/companies/me/jobs", h.ListJobs)
	r.Patch("/jobs/:job_id/visibility", h.ToggleVisibility)
	r.Patch("/applications/:id/status", h.ChangeStatus)
}

type registerCompanyRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Image    string `json:"image"`
}

func (h *CompanyHandler) Register(c fiber.Ctx) error {
	var req registerCompanyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	comp, token, err := h.companies.Register(c.Context(), req.Name, req.Email, req.Password, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			return middleware.NewAppError(fiber.StatusBadRequest, "Missing details", nil, err)
		case errors.Is(err, company.ErrEmailTaken):
			return middleware.NewAppError(fiber.StatusConflict, "Company already registered", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
		}
	}
	return response.Success(c, fiber.StatusCreated, "Company registered", dto.NewCompanyAuthResponse(comp, token))
}

type loginCompanyRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *CompanyHandler) Login(c fiber.Ctx) error {
	var req loginCompanyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	comp, token, err := h.companies.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, company.ErrBadCredential) {
			return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCompanyAuthResponse(comp, token))
}

type postJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Level       string `json:"level"`
	Salary      int64  `json:"salary"`
}

func (h *CompanyHandler) PostJob(c fiber.Ctx) error {
	companyID, err := companyIDFromCtx(c)
	if err != nil {
		return err
	}

	var req postJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	j, err := h.companies.PostJob(c.Context(), companyID, usecase.PostJobInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Category:    req.Category,
		Level:       req.Level,
		Salary:      req.Salary,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			return middleware.NewAppError(fiber.StatusBadRequest, "Missing details", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusCreated, "Job posted", dto.NewJobResponse(j))
}

func (h *CompanyHandler) ListJobs(c fiber.Ctx) error {
	companyID, err := companyIDFromCtx(c)
	if err != nil {
		return err
	}

	items, err := h.companies.ListJobs(c.Context(), companyID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCompanyJobResponses(items))
}

func (h *CompanyHandler) ToggleVisibility(c fiber.Ctx) error {
	companyID, err := companyIDFromCtx(c)
	if err != nil {
		return err
	}

	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	j, err := h.companies.ToggleVisibility(c.Context(), companyID, jobID)
	if err != nil {
		switch {
		case errors.Is(err, job.ErrNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
		case errors.Is(err, usecase.ErrUnauthorized):
			return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
		}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

func (h *CompanyHandler) ChangeStatus(c fiber.Ctx) error {
	companyID, err := companyIDFromCtx(c)
	if err != nil {
		return err
	}

	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid application id", nil, err)
	}

	var req changeStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	err = h.applications.ChangeStatus(c.Context(), companyID, appID, application.Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid status", nil, err)
		case errors.Is(err, application.ErrNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "Application not found", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
		}
	}
	return response.Success(c, fiber.StatusOK, "Status changed", nil)
}

func companyIDFromCtx(c fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals(middleware.CtxCompanyIDKey).(string)
	if !ok || raw == "" {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	}
	return id, nil
}
