package app

import (
	"context"
	"log"
	"time"

	"smart-apply/internal/config"
	"smart-apply/internal/database"
	"smart-apply/internal/database/migration"
	dbpostgres "smart-apply/internal/database/postgres"
	"smart-apply/internal/delivery/http/handler"
	"smart-apply/internal/delivery/http/middleware"
	"smart-apply/internal/delivery/http/routes"
	"smart-apply/internal/infrastructure/cache"
	"smart-apply/internal/infrastructure/oracle"
	"smart-apply/internal/pkg/jwt"
	"smart-apply/internal/repository"
	"smart-apply/internal/usecase"
	"smart-apply/internal/ws"
)

type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	Routes *routes.Registry
	Logger *log.Logger
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := (migration.Runner{}).Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	redisCache, err := cache.NewRedis(cfg.Redis, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	userRepo := repository.NewPostgresUserRepository(db)
	jobRepo := repository.NewPostgresJobRepository(db)
	appRepo := repository.NewPostgresApplicationRepository(db)
	companyRepo := repository.NewPostgresCompanyRepository(db)

	limiter := usecase.NewRateLimiter(redisCache)
	cooldowns := usecase.NewCooldownGate(redisCache)
	verdicts := usecase.NewVerdictCache(redisCache, redisCache)
	ranking := usecase.NewRankingIndex(redisCache, redisCache)
	scorer := oracle.NewClient(cfg.Oracle, logger)

	hub := ws.NewHub(logger)
	notifier := ws.NewNotifier(hub)

	admissionUC := usecase.NewAdmissionUsecase(
		userRepo, jobRepo, appRepo,
		limiter, cooldowns, verdicts, ranking,
		scorer, notifier, cfg.Admission, logger,
	)
	rankingUC := usecase.NewApplicantRankingUsecase(ranking, appRepo, jobRepo, cfg.Admission)
	resumeUC := usecase.NewResumeUsecase(userRepo, limiter, verdicts, cfg.Admission)
	applicationUC := usecase.NewApplicationUsecase(appRepo)

	tokens := jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	companyUC := usecase.NewCompanyUsecase(companyRepo, jobRepo, appRepo, tokens)

	registry := &routes.Registry{
		Health:    handler.NewHealthHandler(db, redisCache),
		Apply:     handler.NewApplyHandler(admissionUC),
		Applicant: handler.NewApplicantHandler(rankingUC),
		User:      handler.NewUserHandler(applicationUC, resumeUC),
		Company:   handler.NewCompanyHandler(companyUC, applicationUC),
		WS:        ws.NewHandler(hub, logger),
		Auth:      middleware.NewAuthMiddleware(tokens),
	}

	return &Container{
		Config: cfg,
		DB:     db,
		Cache:  redisCache,
		Hub:    hub,
		Routes: registry,
		Logger: logger,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var firstErr error
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
