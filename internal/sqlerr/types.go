package sqlerr

import (
	"regexp"
	"strings"

	sqlite3 "modernc.org/sqlite/lib"
)

// Code is our friendly enum over the driver's raw result codes.
//
// SQLite reports failures as numeric result codes (extended codes carry the
// constraint subtype in the high bits). Switching on numbers all over the
// codebase is unreadable, so they are mapped once into this enum.
type Code int

const (
	// Other is every database error we don't special-case.
	Other Code = iota

	// UniqueViolation: a UNIQUE (or PRIMARY KEY) index rejected a duplicate.
	UniqueViolation

	// ForeignKeyViolation: a referenced row does not exist.
	ForeignKeyViolation

	// NotNullViolation: a NOT NULL column received NULL.
	NotNullViolation

	// CheckViolation: a CHECK constraint evaluated false.
	CheckViolation
)

// Error is the normalized form of a driver error.
//
// The sqlite driver only exposes a result code and a message string; unlike
// server databases there is no structured metadata (schema/table/column), so
// TableName/ColumnName are parsed out of the message when present.
type Error struct {
	// Code is the friendly category (unique, fk, not-null, check, other).
	Code Code

	// DatabaseCode keeps the driver's extended result code (e.g. 2067).
	DatabaseCode int

	// Message is the driver's message text.
	Message string

	// TableName/ColumnName are best-effort, parsed from messages like
	// "UNIQUE constraint failed: items.title".
	TableName  string
	ColumnName string

	// driverErr keeps the original error for Unwrap() and debugging.
	driverErr error
}

// Error satisfies the built-in error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the original driver error to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a sqlite extended result code into our Code enum.
//
// Extended constraint codes embed the primary code (19, SQLITE_CONSTRAINT)
// in the low byte; the subtype lives above it:
//
//	2067 => SQLITE_CONSTRAINT_UNIQUE
//	1555 => SQLITE_CONSTRAINT_PRIMARYKEY (also a duplicate-key case)
//	 787 => SQLITE_CONSTRAINT_FOREIGNKEY
//	1299 => SQLITE_CONSTRAINT_NOTNULL
//	 275 => SQLITE_CONSTRAINT_CHECK
func MapCode(code int) Code {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return UniqueViolation
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ForeignKeyViolation
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return NotNullViolation
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return CheckViolation
	}

	// A bare SQLITE_CONSTRAINT (19) without a subtype still means some
	// constraint rejected the statement; the message decides the subtype.
	if code == sqlite3.SQLITE_CONSTRAINT {
		return CheckViolation
	}

	return Other
}

// constraintTargetRe matches the "<table>.<column>" tail sqlite appends to
// UNIQUE and NOT NULL constraint messages.
var constraintTargetRe = regexp.MustCompile(`constraint failed: ([A-Za-z0-9_]+)\.([A-Za-z0-9_]+)`)

// parseConstraintTarget extracts (table, column) from a driver message.
//
// Examples:
//
//	"UNIQUE constraint failed: items.title"    -> ("items", "title")
//	"NOT NULL constraint failed: items.title"  -> ("items", "title")
//	"FOREIGN KEY constraint failed"            -> ("", "")
//
// Multi-column constraints list every column; the first one wins, which is
// enough for the messages we build from it.
func parseConstraintTarget(message string) (string, string) {
	matches := constraintTargetRe.FindStringSubmatch(message)
	if len(matches) == 3 {
		return matches[1], matches[2]
	}
	return "", ""
}

// isConstraintMessage reports whether the message looks like a constraint
// failure at all. Used as a fallback when the code alone is ambiguous.
func isConstraintMessage(message string) bool {
	return strings.Contains(message, "constraint failed")
}
