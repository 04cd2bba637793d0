// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/deppfellow/todo-api/internal/handler"
	"github.com/deppfellow/todo-api/internal/middleware"
	"github.com/deppfellow/todo-api/internal/server"
	"github.com/labstack/echo/v4"
)

// New builds the Echo instance with the full middleware chain and all routes.
//
// Middleware ORDER matters:
//  1. New Relic transaction first, so everything below runs inside it.
//  2. RequestID before ContextEnhancer, which folds the id into the logger.
//  3. ContextEnhancer before anything that calls GetLogger.
//  4. EnhanceTracing after both, so it can read the request id.
//  5. Request logging, recovery, CORS, secure headers.
//  6. Rate limiting last, so even rejected requests are traced and logged.
func New(s *server.Server, mws *middleware.Middlewares, handlers *handler.Handlers) *echo.Echo {
	e := echo.New()

	// Echo prints an ASCII banner by default. Logs should be the only startup output.
	e.HideBanner = true
	e.HidePort = true

	// Every error from any handler or middleware funnels through here.
	e.HTTPErrorHandler = mws.Global.GlobalErrorHandler

	e.Use(mws.Tracing.NewRelicMiddleware())
	e.Use(middleware.RequestID())
	e.Use(mws.ContextEnhancer.EnhanceContext())
	e.Use(mws.Tracing.EnhanceTracing())
	e.Use(mws.Global.RequestLogger())
	e.Use(mws.Global.Recover())
	e.Use(mws.Global.CORS())
	e.Use(mws.Global.Secure())
	e.Use(mws.RateLimit.Limit())

	registerSystemRoutes(e, handlers)
	registerItemRoutes(e, handlers)

	return e
}
