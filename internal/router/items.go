package router

import (
	"net/http"

	"github.com/deppfellow/todo-api/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerItemRoutes registers the task CRUD endpoints.
//
// Each route goes through handler.Handle, which gives every endpoint the same
// bind/validate/trace/log pipeline. The status code passed in is what a
// SUCCESSFUL call returns; error statuses come from the error types themselves.
//
// The collection path is registered both with and without a trailing slash so
// clients don't get surprised by a redirect or a 404 over one character.
func registerItemRoutes(r *echo.Echo, h *handler.Handlers) {
	// Create a task. 201 because a new resource comes into existence.
	r.POST("/items", handler.Handle(h.Items.Handler, h.Items.CreateItem, http.StatusCreated))
	r.POST("/items/", handler.Handle(h.Items.Handler, h.Items.CreateItem, http.StatusCreated))

	// List all tasks, optionally sorted (?sort_by=...&sort_order=...).
	r.GET("/items", handler.Handle(h.Items.Handler, h.Items.ListItems, http.StatusOK))
	r.GET("/items/", handler.Handle(h.Items.Handler, h.Items.ListItems, http.StatusOK))

	// Single-task operations keyed by the numeric id in the path.
	r.GET("/items/:id", handler.Handle(h.Items.Handler, h.Items.GetItem, http.StatusOK))
	r.PUT("/items/:id", handler.Handle(h.Items.Handler, h.Items.UpdateItem, http.StatusOK))
	r.DELETE("/items/:id", handler.Handle(h.Items.Handler, h.Items.DeleteItem, http.StatusOK))
}
