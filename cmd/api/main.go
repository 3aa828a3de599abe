// @title                       API de Login Simples
// @version                     1.0.0
// @description                 API para registro e login de usuários
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer followed by a space and the token returned by /register or /login.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"login-api/config"
	"login-api/internal/handler"
	"login-api/internal/metrics"
	"login-api/internal/repository"
	"login-api/internal/server"
	"login-api/internal/services"
	"login-api/pkg/database"
	"login-api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()

	l := logger.New(cfg.LogMode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	if cfg.StoreBackend == config.StorePostgres {
		if err := database.Migrate(context.Background(), cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	repo, closeRepo, err := repository.Open(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open user store: %w", err)
	}
	defer closeRepo()
	l.Infof("User store backend: %s", cfg.StoreBackend)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	users := services.NewUserService(repo)
	tokens := services.NewTokenService()

	srv := server.New(cfg, l, m)
	srv.SetupRoutes(&server.Handlers{
		Auth:   handler.NewAuthHandler(users, tokens, m, l),
		User:   handler.NewUserHandler(m),
		Health: handler.NewHealthHandler(time.Now()),
		Docs:   handler.NewDocsHandler(),
	}, tokens)

	if err := srv.Start(); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}
