package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/deppfellow/todo-api/internal/config"
	"github.com/deppfellow/todo-api/internal/database"
	"github.com/deppfellow/todo-api/internal/server"
	"github.com/deppfellow/todo-api/internal/sqlerr"
	"github.com/rs/zerolog"
)

// newTestRepo spins up a real sqlite database in a temp dir and returns a
// repository wired the same way the app wires it.
func newTestRepo(t *testing.T) *ItemsRepository {
	t.Helper()

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        10,
			WriteTimeout:       10,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
			RateLimit:          100,
		},
		Database:      config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "items_test.db")},
		Observability: config.DefaultObservabilityConfig(),
	}

	logger := zerolog.Nop()
	db, err := database.New(cfg, &logger)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	s := &server.Server{
		Config: cfg,
		Logger: &logger,
		DB:     db,
	}
	return NewItemsRepository(s)
}

func mustInsert(t *testing.T, repo *ItemsRepository, item *Item) *Item {
	t.Helper()
	created, err := repo.Insert(context.Background(), item)
	if err != nil {
		t.Fatalf("insert %q: %v", item.Title, err)
	}
	return created
}

func strPtr(s string) *string {
	return &s
}

func TestInsertAssignsIncreasingIDs(t *testing.T) {
	repo := newTestRepo(t)

	first := mustInsert(t, repo, &Item{Title: "first", Priority: 1})
	second := mustInsert(t, repo, &Item{Title: "second", Priority: 1})

	if first.ID != 1 {
		t.Errorf("first id = %d, want 1", first.ID)
	}
	if second.ID != 2 {
		t.Errorf("second id = %d, want 2", second.ID)
	}
}

func TestInsertDuplicateTitle(t *testing.T) {
	repo := newTestRepo(t)

	mustInsert(t, repo, &Item{Title: "buy milk", Priority: 1})

	_, err := repo.Insert(context.Background(), &Item{Title: "buy milk", Priority: 1})
	if err == nil {
		t.Fatal("expected unique constraint error, got nil")
	}
	if code := sqlerr.ErrCode(err); code != sqlerr.UniqueViolation {
		t.Errorf("sqlerr.ErrCode = %v, want UniqueViolation", code)
	}
}

func TestGetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	created := mustInsert(t, repo, &Item{
		Title:       "with description",
		Description: strPtr("some detail"),
		Completed:   true,
		Priority:    3,
	})

	got, err := repo.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("get returned nil for existing item")
	}

	if got.Title != "with description" {
		t.Errorf("title = %q, want %q", got.Title, "with description")
	}
	if got.Description == nil || *got.Description != "some detail" {
		t.Errorf("description = %v, want %q", got.Description, "some detail")
	}
	if !got.Completed {
		t.Error("completed = false, want true")
	}
	if got.Priority != 3 {
		t.Errorf("priority = %d, want 3", got.Priority)
	}
}

func TestGetNullDescription(t *testing.T) {
	repo := newTestRepo(t)

	created := mustInsert(t, repo, &Item{Title: "no description", Priority: 1})

	got, err := repo.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != nil {
		t.Errorf("description = %v, want nil", got.Description)
	}
}

func TestGetAbsentIsNotAnError(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.Get(context.Background(), 12345)
	if err != nil {
		t.Fatalf("get on missing id returned error: %v", err)
	}
	if got != nil {
		t.Errorf("get on missing id = %+v, want nil", got)
	}
}

func TestListAllEmptyIsEmptySlice(t *testing.T) {
	repo := newTestRepo(t)

	items, err := repo.ListAll(context.Background(), "id", "asc")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if items == nil {
		t.Fatal("list returned nil slice, want empty slice")
	}
	if len(items) != 0 {
		t.Errorf("len = %d, want 0", len(items))
	}
}

func TestListAllSorting(t *testing.T) {
	repo := newTestRepo(t)

	mustInsert(t, repo, &Item{Title: "banana", Priority: 2})
	mustInsert(t, repo, &Item{Title: "apple", Priority: 1})
	mustInsert(t, repo, &Item{Title: "cherry", Priority: 3})

	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		want      []string
	}{
		{
			name:      "id ascending is insertion order",
			sortBy:    "id",
			sortOrder: "asc",
			want:      []string{"banana", "apple", "cherry"},
		},
		{
			name:      "title ascending",
			sortBy:    "title",
			sortOrder: "asc",
			want:      []string{"apple", "banana", "cherry"},
		},
		{
			name:      "title descending",
			sortBy:    "title",
			sortOrder: "desc",
			want:      []string{"cherry", "banana", "apple"},
		},
		{
			name:      "priority descending",
			sortBy:    "priority",
			sortOrder: "desc",
			want:      []string{"cherry", "banana", "apple"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := repo.ListAll(context.Background(), tt.sortBy, tt.sortOrder)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(items) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(items), len(tt.want))
			}
			for i, title := range tt.want {
				if items[i].Title != title {
					t.Errorf("items[%d].Title = %q, want %q", i, items[i].Title, title)
				}
			}
		})
	}
}

func TestListAllRejectsUnknownColumn(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.ListAll(context.Background(), "created_at; DROP TABLE items", "asc")
	if err == nil {
		t.Fatal("expected error for non-whitelisted sort column")
	}
}

func TestUpdateReplacesAllFields(t *testing.T) {
	repo := newTestRepo(t)

	created := mustInsert(t, repo, &Item{
		Title:       "before",
		Description: strPtr("old detail"),
		Completed:   false,
		Priority:    2,
	})

	// Full replace: description deliberately nil, it must not survive.
	updated, err := repo.Update(context.Background(), created.ID, &Item{
		Title:     "after",
		Completed: true,
		Priority:  1,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated == nil {
		t.Fatal("update returned nil for existing item")
	}
	if updated.ID != created.ID {
		t.Errorf("id changed on update: %d -> %d", created.ID, updated.ID)
	}

	got, err := repo.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Title != "after" {
		t.Errorf("title = %q, want %q", got.Title, "after")
	}
	if got.Description != nil {
		t.Errorf("description = %v, want nil after full replace", got.Description)
	}
	if !got.Completed {
		t.Error("completed = false, want true")
	}
	if got.Priority != 1 {
		t.Errorf("priority = %d, want 1", got.Priority)
	}
}

func TestUpdateAbsentIsNotAnError(t *testing.T) {
	repo := newTestRepo(t)

	updated, err := repo.Update(context.Background(), 999, &Item{Title: "ghost", Priority: 1})
	if err != nil {
		t.Fatalf("update on missing id returned error: %v", err)
	}
	if updated != nil {
		t.Errorf("update on missing id = %+v, want nil", updated)
	}
}

func TestDeleteReportsPresence(t *testing.T) {
	repo := newTestRepo(t)

	created := mustInsert(t, repo, &Item{Title: "short lived", Priority: 1})

	deleted, err := repo.Delete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Error("delete = false, want true for existing item")
	}

	deleted, err = repo.Delete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Error("delete = true, want false for already-deleted item")
	}
}

func TestDeletedIDIsNeverReused(t *testing.T) {
	repo := newTestRepo(t)

	mustInsert(t, repo, &Item{Title: "one", Priority: 1})
	second := mustInsert(t, repo, &Item{Title: "two", Priority: 1})

	if _, err := repo.Delete(context.Background(), second.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	third := mustInsert(t, repo, &Item{Title: "three", Priority: 1})
	if third.ID <= second.ID {
		t.Errorf("id %d was reused after delete; want > %d", third.ID, second.ID)
	}
}
