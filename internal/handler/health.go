package handler

// HealthHandler exposes a "system" endpoint that external systems can use to verify
// the service is alive and dependencies are reachable.
//
// Backend systems should expose a health endpoint so Kubernetes / uptime monitors /
// load balancers can check whether the service is running. It returns a successful
// response when the service is healthy and reports sub-checks like database
// connectivity.
import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/todo-api/internal/middleware"
	"github.com/deppfellow/todo-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HealthHandler embeds the base Handler to reuse shared server dependencies.
// This endpoint is not "business logic", but embedding keeps handler patterns consistent.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler with access to shared app dependencies.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns system health status and dependency checks.
//
// Response includes:
// - overall status (healthy/unhealthy)
// - timestamp (UTC)
// - environment (from config)
// - checks map (keyed by check name from config)
//
// It returns:
// - 200 OK if all checks pass
// - 503 Service Unavailable if any check fails
//
// Which checks run comes from observability config (health_checks.checks);
// the only dependency this service has is its database, so unknown names
// are reported rather than guessed at.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	// Use the request-scoped logger from context enhancer middleware.
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	hcConfig := h.server.Config.Observability.HealthChecks

	// Base response format.
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      make(map[string]interface{}),
	}

	checks := response["checks"].(map[string]interface{})
	isHealthy := true

	// Health checking can be disabled wholesale; the endpoint then only
	// proves the process is up and serving.
	if !hcConfig.Enabled {
		logger.Debug().Msg("dependency checks disabled")
		return c.JSON(http.StatusOK, response)
	}

	for _, name := range hcConfig.Checks {
		switch name {
		case "database":
			if !h.checkDatabase(checks, logger.With().Str("check", "database").Logger()) {
				isHealthy = false
			}

		default:
			// A configured check we don't know how to run is a config
			// mistake, not an outage. Report it without failing health.
			checks[name] = map[string]interface{}{
				"status": "unknown",
			}

			logger.Warn().
				Str("check", name).
				Msg("unknown health check configured")
		}
	}

	// ---------------- Overall status + response ------------------------------
	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
			h.server.LoggerService.GetApplication().RecordCustomEvent(
				"HealthCheckError",
				map[string]interface{}{
					"check_type":        "overall",
					"operation":         "health_check",
					"error_type":        "overall_unhealthy",
					"total_duration_ms": time.Since(start).Milliseconds(),
				},
			)
		}

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	// If JSON write fails, record telemetry and return a wrapped error.
	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")

		if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
			h.server.LoggerService.GetApplication().RecordCustomEvent(
				"HealthCheckError",
				map[string]interface{}{
					"check_type":    "response",
					"operation":     "health_check",
					"error_type":    "json_response_error",
					"error_message": err.Error(),
				},
			)
		}

		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// checkDatabase pings the sqlite handle and records the outcome in checks.
//
// Returns false when the ping fails. The timeout comes from observability
// config so a stuck disk turns into "unhealthy" instead of a hung endpoint.
func (h *HealthHandler) checkDatabase(checks map[string]interface{}, logger zerolog.Logger) bool {
	ctx, cancel := context.WithTimeout(context.Background(), h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	dbStart := time.Now()

	if err := h.server.DB.Ping(ctx); err != nil {
		checks["database"] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": time.Since(dbStart).String(),
			"error":         err.Error(),
		}

		logger.Error().
			Err(err).
			Dur("response_time", time.Since(dbStart)).
			Msg("database health check failed")

		// Record a New Relic custom event if enabled.
		if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
			h.server.LoggerService.GetApplication().RecordCustomEvent(
				"HealthCheckError",
				map[string]interface{}{
					"check_type":       "database",
					"operation":        "health_check",
					"error_type":       "database_unhealthy",
					"response_time_ms": time.Since(dbStart).Milliseconds(),
					"error_message":    err.Error(),
				},
			)
		}

		return false
	}

	checks["database"] = map[string]interface{}{
		"status":        "healthy",
		"response_time": time.Since(dbStart).String(),
	}

	logger.Info().
		Dur("response_time", time.Since(dbStart)).
		Msg("database health check passed")

	return true
}
