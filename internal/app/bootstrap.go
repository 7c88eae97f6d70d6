package app

import (
	"context"
	"fmt"
	"strings"

	"smartats/internal/config"
	"smartats/internal/delivery/http/handler"
	"smartats/internal/delivery/http/middleware"
	"smartats/internal/delivery/http/routes"
	v1 "smartats/internal/delivery/http/routes/v1"
	"smartats/internal/pkg/jwt"
	"smartats/internal/repository"
	ucauth "smartats/internal/usecase/auth"
	ucjob "smartats/internal/usecase/job"
	"smartats/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber *fiber.App
}

func New(cfg config.Config, logger *zap.Logger, registry *routes.Registry) *App {
	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	registerGlobalMiddleware(f, logger)
	registry.Register(f)

	return &App{Fiber: f}
}

func Bootstrap(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	jobRepo := repository.NewPostgresJobRepository(c.DB)
	userRepo := repository.NewPostgresUserRepository(c.DB)

	tokens := jwt.NewHMACService(cfg.JWT, cfg.App.AppName)

	jobUC := ucjob.NewService(jobRepo, c.Cache, c.Publisher(), logger, ucjob.WithDetailTTL(cfg.Redis.JobDetailTTL))
	authUC := ucauth.NewService(userRepo, tokens, logger)

	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.DB, c.Cache),
		ws.NewHandler(c.Hub, logger.Named("ws")),
		v1.Handlers{
			Auth:   handler.NewAuthHandler(authUC),
			Jobs:   handler.NewJobHandler(jobUC),
			AuthMw: middleware.NewAuthMiddleware(tokens),
		},
	)

	return New(cfg, logger, registry), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
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
