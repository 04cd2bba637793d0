package middleware

import (
	"time"

	"github.com/deppfellow/todo-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware throttles clients that send too many requests.
//
// Enforcement uses Echo's in-memory token bucket store keyed by client IP.
// Throttled requests also emit a New Relic custom event so spikes are visible
// in observability dashboards, not just in access logs.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns the enforcement middleware.
//
// Config:
//   - Rate/Burst come from server config (requests per second).
//   - ExpiresIn controls how long an idle client's bucket is kept in memory.
//
// Identity:
//   - Clients are identified by IP (c.RealIP(), proxy-aware).
//
// When a client exceeds the limit, we record the event and let Echo return
// its standard 429, which the global error handler converts into our envelope.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	limit := rate.Limit(r.server.Config.Server.RateLimit)

	// Burst must be at least 1 or the store rejects every request.
	burst := int(r.server.Config.Server.RateLimit)
	if burst < 1 {
		burst = 1
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// Identity extraction failed. Treat as a client error rather
			// than silently letting the request through.
			return middleware.ErrExtractorError
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			return middleware.ErrRateLimitExceeded
		},
	})
}

// RecordRateLimitHit emits a New Relic custom event for a throttled request.
// No-op when New Relic is not configured.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
