// Command api runs the to-do list HTTP API.
//
// Startup order matters and mirrors the dependency graph:
// config -> telemetry -> logger -> server (db) -> repositories -> services
// -> handlers -> middleware -> router -> http.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/todo-api/internal/config"
	"github.com/deppfellow/todo-api/internal/handler"
	"github.com/deppfellow/todo-api/internal/logger"
	"github.com/deppfellow/todo-api/internal/middleware"
	"github.com/deppfellow/todo-api/internal/repository"
	"github.com/deppfellow/todo-api/internal/router"
	"github.com/deppfellow/todo-api/internal/server"
	"github.com/deppfellow/todo-api/internal/service"
	"github.com/rs/zerolog"
)

// shutdownTimeout bounds how long inflight requests get to finish on SIGTERM.
const shutdownTimeout = 10 * time.Second

func main() {
	// Config first. Everything else reads from it.
	// config.New logs and exits on its own if the environment is unusable.
	cfg, err := config.New()
	if err != nil {
		// Config failed before a real logger exists, so use a bare one.
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("failed to load config")
	}

	// Telemetry wrapper (New Relic). Disabled (nil app) without a license key.
	loggerService, err := logger.NewLoggerService(cfg)
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("failed to initialize telemetry")
	}

	// Application logger. Forwards to New Relic when telemetry is on.
	appLogger := logger.New(cfg, loggerService)

	// Server container: opens the database, ensures schema, pings.
	s, err := server.New(cfg, &appLogger, loggerService)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize server")
	}

	// Wire the layers.
	repos := repository.NewRepositories(s)

	services, err := service.NewService(s, repos)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize services")
	}

	handlers := handler.NewHandlers(s, services)
	mws := middleware.NewMiddlewares(s)

	e := router.New(s, mws, handlers)
	s.SetupHTTPServer(e)

	// Start serving in the background so main can wait on signals.
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	// Block until SIGINT (ctrl-c) or SIGTERM (orchestrator stop).
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
	}

	appLogger.Info().Msg("server stopped")
}
