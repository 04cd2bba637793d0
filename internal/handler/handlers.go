// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It parses requests, handles input validation using the..
// validation package, and calls the appropriate service layer.
// It acts as the interface between the HTTP request and the core..
// business logic.
package handler

import (
	"github.com/deppfellow/todo-api/internal/server"
	"github.com/deppfellow/todo-api/internal/service"
)

// Handlers is a container that groups all HTTP handlers.
//
// This keeps router setup clean: you pass one object around instead of many.
// Handlers represent the HTTP layer: parse input, validate, call services,
// and return responses.
type Handlers struct {
	Items   *ItemsHandler   // Items serves the task CRUD endpoints.
	Welcome *WelcomeHandler // Welcome serves the API root greeting.
	Health  *HealthHandler  // Health serves service health endpoints (liveness/readiness).
	OpenAPI *OpenAPIHandler // OpenAPI serves API documentation (OpenAPI spec / swagger endpoints).
}

// NewHandlers constructs the handler container.
//
// Parameters:
// - s: application container (logger/config/etc.) often needed by handlers
// - services: business layer container
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Items:   NewItemsHandler(s, services),
		Welcome: NewWelcomeHandler(s),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
