package service

import (
	"context"

	"github.com/deppfellow/todo-api/internal/repository"
	"github.com/deppfellow/todo-api/internal/server"
)

// Defaults applied when a request omits the optional fields.
//
// These live in the service (not the handler) so every write path agrees
// on them: a created item and a fully-replaced item fill gaps identically.
const (
	DefaultPriority = 1

	defaultSortBy    = "id"
	defaultSortOrder = "asc"
)

// ItemsService implements the task list's business rules.
//
// There is intentionally not much business here: defaulting, sort
// normalization, and delegation. The interesting decisions (what absence
// means for an HTTP response, how driver errors become status codes) belong
// to the layers on either side.
type ItemsService struct {
	server *server.Server
	repos  *repository.Repositories
}

// NewItemsService constructs the service with its dependencies.
func NewItemsService(s *server.Server, repos *repository.Repositories) *ItemsService {
	return &ItemsService{
		server: s,
		repos:  repos,
	}
}

// Create persists a new item.
//
// priority is a pointer so "omitted" is distinguishable from an explicit
// value; omitted falls back to DefaultPriority. The returned item carries
// the database-assigned id.
func (s *ItemsService) Create(ctx context.Context, title string, description *string, completed bool, priority *int) (*repository.Item, error) {
	item := &repository.Item{
		Title:       title,
		Description: description,
		Completed:   completed,
		Priority:    resolvePriority(priority),
	}

	return s.repos.Items.Insert(ctx, item)
}

// List returns all items, sorted.
//
// Empty sort parameters mean "id ascending", which matches insertion order
// because ids only ever grow.
func (s *ItemsService) List(ctx context.Context, sortBy, sortOrder string) ([]repository.Item, error) {
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	if sortOrder == "" {
		sortOrder = defaultSortOrder
	}

	return s.repos.Items.ListAll(ctx, sortBy, sortOrder)
}

// Get fetches one item. A nil result with nil error means the id does not
// exist; deciding that this is a 404 is the handler's business.
func (s *ItemsService) Get(ctx context.Context, id int64) (*repository.Item, error) {
	return s.repos.Items.Get(ctx, id)
}

// Replace overwrites every field of an existing item with the given state.
//
// This is PUT semantics: fields omitted from the request are not preserved
// from the old row, they take the same defaults a fresh create would get.
// A nil result with nil error means the id does not exist.
func (s *ItemsService) Replace(ctx context.Context, id int64, title string, description *string, completed bool, priority *int) (*repository.Item, error) {
	item := &repository.Item{
		Title:       title,
		Description: description,
		Completed:   completed,
		Priority:    resolvePriority(priority),
	}

	return s.repos.Items.Update(ctx, id, item)
}

// Delete removes an item. The boolean reports whether anything was there
// to remove.
func (s *ItemsService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.repos.Items.Delete(ctx, id)
}

func resolvePriority(priority *int) int {
	if priority == nil {
		return DefaultPriority
	}
	return *priority
}
