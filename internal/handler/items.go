package handler

import (
	"github.com/deppfellow/todo-api/internal/errs"
	"github.com/deppfellow/todo-api/internal/repository"
	"github.com/deppfellow/todo-api/internal/server"
	"github.com/deppfellow/todo-api/internal/service"
	"github.com/deppfellow/todo-api/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// validate runs the struct tag rules for every request type in this package.
// One shared instance; validator caches struct metadata internally.
var validate = validator.New()

// ItemsHandler exposes the task CRUD endpoints.
type ItemsHandler struct {
	Handler
	items *service.ItemsService
}

// NewItemsHandler constructs an ItemsHandler with access to shared dependencies.
func NewItemsHandler(s *server.Server, services *service.Services) *ItemsHandler {
	return &ItemsHandler{
		Handler: NewHandler(s),
		items:   services.Items,
	}
}

// --- Request payloads --------------------------------------------------------

// CreateItemRequest is the body of POST /items.
//
// Only title is required. Everything else defaults: description to null,
// completed to false, priority to 1. Priority is a pointer so "omitted"
// and "explicit zero" are different things; an explicit 0 is invalid.
type CreateItemRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	Priority    *int    `json:"priority"`
}

func (r *CreateItemRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return validatePriority(r.Priority)
}

// UpdateItemRequest is the body of PUT /items/:id plus the path id.
//
// It deliberately mirrors CreateItemRequest: a PUT is a full replace, so the
// same fields, requirements, and defaults apply. The id comes from the path
// only; an "id" key in the body is ignored (the id of a row never changes).
type UpdateItemRequest struct {
	ID          int64   `json:"-" param:"id"`
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	Priority    *int    `json:"priority"`
}

func (r *UpdateItemRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return validatePriority(r.Priority)
}

// GetItemRequest captures the path id of GET /items/:id.
type GetItemRequest struct {
	ID int64 `param:"id"`
}

func (r *GetItemRequest) Validate() error {
	return validate.Struct(r)
}

// DeleteItemRequest captures the path id of DELETE /items/:id.
type DeleteItemRequest struct {
	ID int64 `param:"id"`
}

func (r *DeleteItemRequest) Validate() error {
	return validate.Struct(r)
}

// ListItemsRequest holds the optional sort controls of GET /items.
//
// Both values are whitelisted here; empty means "id ascending" and the
// service fills that in.
type ListItemsRequest struct {
	SortBy    string `query:"sort_by" validate:"omitempty,oneof=id title completed priority"`
	SortOrder string `query:"sort_order" validate:"omitempty,oneof=asc desc"`
}

func (r *ListItemsRequest) Validate() error {
	return validate.Struct(r)
}

// validatePriority rejects priorities outside the three-level scale.
//
// Implemented as a custom check rather than a oneof tag so the field error
// can carry the level names, which the tag message cannot.
func validatePriority(priority *int) error {
	if priority == nil {
		return nil
	}
	if p := *priority; p != 1 && p != 2 && p != 3 {
		return validation.CustomValidationErrors{{
			Field:   "priority",
			Message: "must be 1 (Low), 2 (Medium), or 3 (High)",
		}}
	}
	return nil
}

// MessageResponse is the body for endpoints that reply with a bare message.
type MessageResponse struct {
	Message string `json:"message"`
}

// --- Endpoints ----------------------------------------------------------------

// CreateItem handles POST /items.
//
// A duplicate title is not checked here; the database's unique index reports
// it and the error funnel turns that into a client error.
func (h *ItemsHandler) CreateItem(c echo.Context, req *CreateItemRequest) (*repository.Item, error) {
	return h.items.Create(c.Request().Context(), req.Title, req.Description, req.Completed, req.Priority)
}

// ListItems handles GET /items.
func (h *ItemsHandler) ListItems(c echo.Context, req *ListItemsRequest) ([]repository.Item, error) {
	return h.items.List(c.Request().Context(), req.SortBy, req.SortOrder)
}

// GetItem handles GET /items/:id.
//
// The service reports absence as a nil item; this is the layer that decides
// absence means 404.
func (h *ItemsHandler) GetItem(c echo.Context, req *GetItemRequest) (*repository.Item, error) {
	item, err := h.items.Get(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errs.NewNotFoundError("Item not found", true, nil)
	}
	return item, nil
}

// UpdateItem handles PUT /items/:id.
//
// Full replace: the stored row ends up exactly as the request describes,
// with omitted optional fields back at their defaults.
func (h *ItemsHandler) UpdateItem(c echo.Context, req *UpdateItemRequest) (*repository.Item, error) {
	item, err := h.items.Replace(c.Request().Context(), req.ID, req.Title, req.Description, req.Completed, req.Priority)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errs.NewNotFoundError("Item not found", true, nil)
	}
	return item, nil
}

// DeleteItem handles DELETE /items/:id.
func (h *ItemsHandler) DeleteItem(c echo.Context, req *DeleteItemRequest) (*MessageResponse, error) {
	deleted, err := h.items.Delete(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, errs.NewNotFoundError("Item not found", true, nil)
	}
	return &MessageResponse{Message: "Item deleted"}, nil
}
