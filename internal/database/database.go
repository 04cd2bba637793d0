// Package database contains the logic for establishing
// connections to the embedded SQLite database.
//
// It specifically handles the *single shared connection* the
// store runs on (opened at startup, closed at shutdown) and
// making sure the schema exists before anyone queries it.
//
// It handles:
//   - building a DSN from config (file path + pragmas)
//   - opening the database/sql handle with the modernc driver
//   - pinning the handle to one connection
//   - ensuring the schema with CREATE TABLE IF NOT EXISTS
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/deppfellow/todo-api/internal/config"
	"github.com/rs/zerolog"
	// Blank import registers the pure-Go sqlite driver under the
	// driver name "sqlite". No cgo involved.
	_ "modernc.org/sqlite"
)

// Database wraps the sql.DB handle and a logger.
// It provides a simple object you can pass around the app.
//
// DB is the shared handle. Despite the name, sql.DB is itself a pool;
// we pin it to a single connection below so "the store's connection"
// means exactly one thing.
// log is used for lifecycle logs (open/close, etc.).
type Database struct {
	DB  *sql.DB
	log *zerolog.Logger
}

// DatabasePingTimeout defines the number of seconds to wait for a ping
// before considering the database "unreachable".
//
// Note: it's an int, used as DatabasePingTimeout * time.Second below.
const DatabasePingTimeout = 10

// schema is applied on every startup. CREATE TABLE IF NOT EXISTS makes it
// a no-op when the file already has the table, which is the whole
// migration story of this service (schema changes are out of scope).
//
// Column notes:
//   - id uses AUTOINCREMENT so a deleted row's id is never handed out
//     again; ids are strictly increasing for the lifetime of the file.
//   - title is NOT NULL and UNIQUE; the unique index is what turns a
//     duplicate create into a constraint error the sqlerr package can
//     translate.
//   - completed is stored as an INTEGER 0/1, which is how sqlite spells
//     BOOLEAN anyway.
const schema = `
CREATE TABLE IF NOT EXISTS items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL UNIQUE,
	description TEXT,
	completed BOOLEAN NOT NULL DEFAULT 0,
	priority INTEGER NOT NULL DEFAULT 1
);
`

// New opens (creating if needed) the SQLite database file and prepares it
// for use.
//
// Inputs:
//   - cfg: application config (database file path)
//   - logger: main app logger
//
// Behavior:
//   - Build the DSN with pragmas:
//     journal_mode(WAL)   better concurrency for readers, sane default
//     busy_timeout(5000)  wait up to 5s for a lock instead of erroring
//     foreign_keys(1)     sqlite leaves referential integrity OFF unless asked
//   - Open the handle and pin it to ONE connection. Everything in this
//     service shares that connection; there is deliberately no pool.
//   - Ping with a timeout so startup fails fast on an unreadable path.
//   - Ensure the schema.
func New(cfg *config.Config, logger *zerolog.Logger) (*Database, error) {
	// The "file:" URI form is what lets us pass pragmas in the DSN.
	// modernc's driver applies each _pragma at connection time.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		cfg.Database.Path,
	)

	// sql.Open does not touch the file yet; it only validates the DSN and
	// registers the connection factory. First real contact is the Ping.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// One connection, kept for the life of the process.
	//
	// With a single writer this sidesteps SQLITE_BUSY between our own
	// connections entirely, and it makes "last_insert_rowid style" state
	// coherent. The handle is still safe for concurrent use; database/sql
	// serializes access to the one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0) // never recycle; the file is local

	database := &Database{
		DB:  db,
		log: logger,
	}

	// Ping with a timeout, so startup fails fast if the path is bogus
	// (unwritable directory, file is a directory, etc.).
	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Schema is idempotent; running it every boot is the migration story.
	if _, err = db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	logger.Info().Str("path", cfg.Database.Path).Msg("connected to the database")

	return database, nil
}

// Ping verifies the connection is still usable. Used by the health check.
func (db *Database) Ping(ctx context.Context) error {
	return db.DB.PingContext(ctx)
}

// Close closes the database handle and releases the file locks.
//
// Returns the driver's close error so shutdown can log it.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection")
	return db.DB.Close()
}
