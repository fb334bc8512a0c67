package app

import (
	"fmt"
	"log"
	"strings"

	"smart-apply/internal/config"
	"smart-apply/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	container, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	errMw := middleware.NewErrorMiddleware(logger)
	accessMw := middleware.NewAccessLogMiddleware(logger)
	throttleMw := middleware.NewThrottleMiddleware(20, 40)

	f.Use(errMw.Middleware())
	f.Use(accessMw.Middleware())
	f.Use(throttleMw.Middleware())

	container.Routes.Register(f)

	go container.Hub.Run()

	cleanup := func() error {
		return container.Close()
	}

	return &App{Fiber: f, Container: container}, cleanup, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
