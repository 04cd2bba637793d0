package middleware

import (
	"context"

	"github.com/deppfellow/todo-api/internal/logger"
	"github.com/deppfellow/todo-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

const (
	// LoggerKey is used as the key for storing the request-scoped logger.
	LoggerKey = "logger"
)

// ContextEnhancer is a middleware helper that enriches request context.
//
// It builds a request-scoped logger with useful fields like:
//   - request_id
//   - method, path, ip
//   - trace.id/span.id (if a New Relic transaction exists)
//
// It then stores that logger in:
//   - Echo context (c.Set)
//   - Go request context (context.WithValue)
type ContextEnhancer struct {
	server *server.Server
}

// NewContextEnhancer creates a new ContextEnhancer using the app Server container.
func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext returns an Echo middleware.
//
// For every request, it:
//  1. gets the request ID (from request_id middleware)
//  2. creates a logger with request fields
//  3. adds trace context if available (New Relic)
//  4. stores that logger in Echo context + Go context
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Extract request ID (from the RequestID middleware).
			// If RequestID middleware didn't run before this, requestID may be "".
			requestID := GetRequestID(c)

			// Create a child logger that includes request-related fields.
			//
			// ce.server.Logger.With() starts a "logger builder".
			// Str(...) adds structured fields.
			// Logger() finalizes a new logger instance.
			contextLogger := ce.server.Logger.With().
				Str("request_id", requestID).
				Str("method", c.Request().Method).
				Str("path", c.Path()). // Echo route path template (e.g. "/items/:id"), not raw URL
				Str("ip", c.RealIP()). // Uses X-Forwarded-For etc when configured
				Logger()

			// Add New Relic trace context if a transaction exists in request context.
			//
			// newrelic.FromContext(ctx) returns the txn set by the New Relic middleware.
			// logger.WithTraceContext adds trace.id + span.id to logger fields.
			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			// Store the enhanced logger in Echo context.
			//
			// Stored as a pointer so handlers can retrieve it cheaply.
			c.Set(LoggerKey, &contextLogger)

			// ALSO store the logger pointer into the Go request context.
			//
			// This allows non-Echo code (that only sees context.Context)
			// to fetch the request logger, e.g. in DB/repo layers.
			ctx := context.WithValue(c.Request().Context(), LoggerKey, &contextLogger)

			// Replace the request with a new request that has the enriched context.
			c.SetRequest(c.Request().WithContext(ctx))

			// Continue the middleware chain.
			return next(c)
		}
	}
}

// GetLogger retrieves the request-scoped logger from Echo context.
//
// If EnhanceContext middleware didn't run, it returns a no-op logger.
func GetLogger(c echo.Context) *zerolog.Logger {
	// Try to pull *zerolog.Logger stored under LoggerKey.
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	// Fallback: return a logger that discards output.
	// This prevents nil pointer crashes, but also hides logs if misconfigured.
	logger := zerolog.Nop()
	return &logger
}
