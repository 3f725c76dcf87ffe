package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contratclair/contratclair/backend/config"
	"github.com/contratclair/contratclair/backend/handler"
	"github.com/contratclair/contratclair/backend/middleware"
	"github.com/contratclair/contratclair/backend/pkg/logger"
	"github.com/contratclair/contratclair/backend/pkg/telemetry"
	"github.com/contratclair/contratclair/backend/service"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Telemetry first so the logger can attach trace IDs
	tel, err := telemetry.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize telemetry: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	if tel != nil {
		slog.InfoContext(ctx, "telemetry initialized", "endpoint", cfg.OTel.Endpoint)
	}

	gen, err := service.NewGenerator(cfg.LLM)
	switch {
	case errors.Is(err, service.ErrMissingCredential):
		// Keep serving health and static files; contract endpoints report the problem.
		slog.WarnContext(ctx, "no LLM credential configured", "env", cfg.LLM.CredentialEnv())
	case err != nil:
		slog.ErrorContext(ctx, "failed to initialize LLM provider", "error", err)
		os.Exit(1)
	default:
		slog.InfoContext(ctx, "LLM provider ready",
			"provider", gen.Provider(),
			"model", gen.Model(),
			"credential", cfg.LLM.CredentialKind(),
		)
	}

	assistant := service.NewAssistantService(gen, cfg.Prompts)

	if cfg.Server.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// WriteTimeout leaves room for rewrites of long contracts.
	router := setupRouter(cfg, assistant)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "server starting",
			"port", cfg.Server.Port,
			"version", cfg.Server.Version,
			"static_dir", cfg.Server.StaticDir,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.InfoContext(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "server forced to shutdown", "error", err)
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "telemetry shutdown error", "error", err)
	}

	slog.InfoContext(shutdownCtx, "server exited gracefully")
}

func setupRouter(cfg *config.Config, assistant *service.AssistantService) *gin.Engine {
	router := gin.New()

	// Span first so every later log line carries trace IDs
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())
	router.Use(middleware.CacheControl())
	router.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	assistantHandler := handler.NewAssistantHandler(assistant, cfg.LLM.CredentialEnv())
	healthHandler := handler.NewHealthHandler(assistant, cfg.Server.Version, cfg.LLM.Model, cfg.LLM.CredentialKind())
	staticHandler := handler.NewStaticHandler(cfg.Server.StaticDir)

	api := router.Group("/api")
	{
		api.POST("/analyze", assistantHandler.Analyze)
		api.POST("/rewrite", assistantHandler.Rewrite)
		api.POST("/generate", assistantHandler.Generate)
		api.GET("/health", healthHandler.Health)
	}

	router.NoRoute(staticHandler.Serve)

	return router
}
