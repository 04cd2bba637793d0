package router

import (
	"github.com/deppfellow/todo-api/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers "system" endpoints that are not part of business logic.
//
// Kept in a dedicated file so business route files stay focused. Routes include:
//  1. Welcome endpoint (API root)
//  2. Health endpoint
//  3. Docs endpoint (OpenAPI UI)
//  4. Static files endpoint (to serve openapi.json and openapi.html assets)
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	// Friendly root so hitting the bare host confirms the API is up.
	r.GET("/", h.Welcome.Welcome)

	// Health status endpoint (used by Kubernetes/monitors).
	r.GET("/status", h.Health.CheckHealth)

	// Serve all files from ./static at /static/*.
	// Used for openapi.json and openapi.html (and any future docs assets).
	r.Static("/static", "static")

	// Docs UI endpoint (serves openapi.html).
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
