package handler

import (
	"net/http"

	"github.com/deppfellow/todo-api/internal/server"
	"github.com/labstack/echo/v4"
)

// WelcomeHandler serves the API root.
//
// It exists mostly so humans poking the base URL get something friendlier
// than a 404. It bypasses the typed pipeline: there is nothing to bind or
// validate.
type WelcomeHandler struct {
	Handler
}

// NewWelcomeHandler constructs a WelcomeHandler.
func NewWelcomeHandler(s *server.Server) *WelcomeHandler {
	return &WelcomeHandler{
		Handler: NewHandler(s),
	}
}

// Welcome greets whoever found the root path.
func (h *WelcomeHandler) Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Welcome to the To-Do List API"})
}
