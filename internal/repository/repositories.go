// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
package repository

import (
	"github.com/deppfellow/todo-api/internal/server"
)

// Repositories is a container for all repository instances.
//
// Keeping them behind one struct means routing/service setup passes a single
// object around instead of a growing list of constructor arguments.
type Repositories struct {
	Items *ItemsRepository
}

// NewRepositories constructs the repository container.
//
// Parameter:
// - s: application container (DB handle lives on s.DB, logger on s.Logger, etc.)
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Items: NewItemsRepository(s),
	}
}
