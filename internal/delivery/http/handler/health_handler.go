package handler

import (
	"context"
	"time"

	"smart-apply/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

func NewHealthHandler(db Pinger, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	checks := fiber.Map{"database": "ok", "cache": "ok"}
	status := fiber.StatusOK

	if h.db != nil && h.db.Ping(ctx) != nil {
		checks["database"] = "unavailable"
		status = fiber.StatusServiceUnavailable
	}
	if h.cache != nil && h.cache.Ping(ctx) != nil {
		checks["cache"] = "unavailable"
		status = fiber.StatusServiceUnavailable
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "degraded", checks)
	}
	return response.Success(c, status, response.MessageOK, checks)
}
