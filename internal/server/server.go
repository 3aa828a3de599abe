package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"login-api/config"
	"login-api/internal/handler"
	"login-api/internal/metrics"
	"login-api/internal/middleware"
	"login-api/internal/services"
	"login-api/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
	metrics    *metrics.Metrics
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Health *handler.HealthHandler
	Docs   *handler.DocsHandler
}

// New builds the engine. m may be nil, in which case /metrics is not mounted.
func New(cfg *config.Config, l *logger.Logger, m *metrics.Metrics) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	if l == nil {
		l = logger.NewNop()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.AppPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine:  engine,
		config:  cfg,
		logger:  l,
		metrics: m,
	}
}

// Engine exposes the gin engine, mainly for httptest.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) SetupRoutes(handlers *Handlers, tokens *services.TokenService) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(cors.New(corsConfig(s.config.CORSOrigins)))
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))
	if s.metrics != nil {
		s.engine.Use(middleware.MetricsMiddleware(s.metrics))
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	s.engine.GET("/health", handlers.Health.Health)

	if handlers.Docs != nil {
		s.engine.GET(handler.DocsPath, handlers.Docs.Index)
		s.engine.GET(handler.DocsPath+"/*any", handlers.Docs.UI)
	}

	s.engine.POST("/register", handlers.Auth.Register)
	s.engine.POST("/login", handlers.Auth.Login)
	s.engine.GET("/profile", middleware.AuthMiddleware(tokens), handlers.User.Profile)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Type", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (s *Server) Start() error {
	go func() {
		s.logger.Infof("API rodando em http://localhost:%s", s.config.AppPort)
		s.logger.Infof("Swagger disponível em http://localhost:%s/docs", s.config.AppPort)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Errorf("Error in starting the server: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	timeout := time.Duration(s.config.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	s.logger.Infof("Quitting signal received.. Shutting down within %s", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Errorf("Error in the graceful shutdown of the server: %s", err)
		return err
	}

	s.logger.Infof("Server stopped gracefully")
	return nil
}
