package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/deppfellow/todo-api/internal/server"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Item is the persisted task record, mapped 1:1 to the items table.
//
// Field notes:
//   - ID is assigned by the database (AUTOINCREMENT). Callers never set it;
//     an id is never reused, even after the row is deleted.
//   - Description is a pointer because the column is nullable. nil marshals
//     to JSON null, which is exactly what clients should see.
//   - Completed round-trips through sqlite's INTEGER 0/1 representation.
type Item struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	Priority    int     `json:"priority"`
}

// itemColumns is the SELECT list shared by every read query, so Scan calls
// stay in one obvious column order.
const itemColumns = "id, title, description, completed, priority"

// sortColumns whitelists what callers may ORDER BY.
//
// The column name is interpolated into SQL (placeholders cannot hold
// identifiers), so the map is the only thing standing between user input
// and the query string. Never bypass it.
var sortColumns = map[string]string{
	"id":        "id",
	"title":     "title",
	"completed": "completed",
	"priority":  "priority",
}

// ItemsRepository performs all SQL against the items table.
//
// It deliberately knows nothing about HTTP: absence of a row is reported
// as a nil result (or false), never as an error, and it is the caller's
// job to decide what that means for a response.
type ItemsRepository struct {
	db  *sql.DB
	log *zerolog.Logger

	// slowQuery is the duration beyond which a query gets a warn log.
	slowQuery time.Duration
}

// NewItemsRepository constructs the repository from the app container.
//
// It borrows the shared connection from s.DB; the repository never opens
// or closes connections itself.
func NewItemsRepository(s *server.Server) *ItemsRepository {
	return &ItemsRepository{
		db:        s.DB.DB,
		log:       s.Logger,
		slowQuery: s.Config.Observability.Logging.SlowQueryThreshold,
	}
}

// observe flags queries that exceeded the configured slow query threshold.
//
// Usage: defer r.observe(time.Now(), "items.insert")
// The deferred call computes the elapsed time at function exit.
func (r *ItemsRepository) observe(start time.Time, query string) {
	elapsed := time.Since(start)
	if r.slowQuery > 0 && elapsed > r.slowQuery {
		r.log.Warn().
			Dur("duration", elapsed).
			Str("query", query).
			Msg("slow query")
	}
}

// Insert persists a new item and returns it with the database-assigned id.
//
// A duplicate title surfaces as the driver's unique constraint error; it is
// returned as-is (wrapped) so the error translation layer can classify it.
func (r *ItemsRepository) Insert(ctx context.Context, item *Item) (*Item, error) {
	defer r.observe(time.Now(), "items.insert")

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO items (title, description, completed, priority) VALUES (?, ?, ?, ?)`,
		item.Title, item.Description, item.Completed, item.Priority,
	)
	if err != nil {
		return nil, errors.Wrap(err, "insert item")
	}

	// sqlite's last_insert_rowid, exposed through database/sql. Valid here
	// because the whole service shares one connection.
	id, err := result.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "read inserted item id")
	}

	item.ID = id
	return item, nil
}

// ListAll returns every item ordered by the given column and direction.
//
// sortBy must be a key of sortColumns and sortOrder must be "asc" or "desc";
// the service layer guarantees both. The result is never nil: an empty table
// yields an empty slice, which marshals to a JSON array.
func (r *ItemsRepository) ListAll(ctx context.Context, sortBy, sortOrder string) ([]Item, error) {
	defer r.observe(time.Now(), "items.list_all")

	column, ok := sortColumns[sortBy]
	if !ok {
		return nil, errors.Errorf("unsortable column: %s", sortBy)
	}

	direction := "ASC"
	if sortOrder == "desc" {
		direction = "DESC"
	}

	// Secondary sort on id keeps the order stable when the primary column
	// has ties (two items with the same completed flag, say).
	query := "SELECT " + itemColumns + " FROM items ORDER BY " + column + " " + direction + ", id ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "list items")
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Completed, &item.Priority); err != nil {
			return nil, errors.Wrap(err, "scan item row")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate item rows")
	}

	return items, nil
}

// Get fetches a single item by id.
//
// Absence is NOT an error: a missing row returns (nil, nil). Errors are
// reserved for the database actually failing.
func (r *ItemsRepository) Get(ctx context.Context, id int64) (*Item, error) {
	defer r.observe(time.Now(), "items.get")

	var item Item
	err := r.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM items WHERE id = ?", id,
	).Scan(&item.ID, &item.Title, &item.Description, &item.Completed, &item.Priority)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get item")
	}

	return &item, nil
}

// Update replaces every mutable column of the item with the given id.
//
// This is a full replace, not a patch: callers supply the complete new
// state. The id itself is immutable and not part of the SET list.
// A missing row returns (nil, nil), mirroring Get.
func (r *ItemsRepository) Update(ctx context.Context, id int64, item *Item) (*Item, error) {
	defer r.observe(time.Now(), "items.update")

	result, err := r.db.ExecContext(ctx,
		`UPDATE items SET title = ?, description = ?, completed = ?, priority = ? WHERE id = ?`,
		item.Title, item.Description, item.Completed, item.Priority, id,
	)
	if err != nil {
		return nil, errors.Wrap(err, "update item")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "read update row count")
	}
	if affected == 0 {
		return nil, nil
	}

	item.ID = id
	return item, nil
}

// Delete removes the item with the given id.
//
// Returns whether a row was actually deleted; false is the absence outcome,
// not an error.
func (r *ItemsRepository) Delete(ctx context.Context, id int64) (bool, error) {
	defer r.observe(time.Now(), "items.delete")

	result, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, errors.Wrap(err, "delete item")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "read delete row count")
	}

	return affected > 0, nil
}
