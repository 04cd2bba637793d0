package sqlerr

import (
	"database/sql"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/deppfellow/todo-api/internal/errs"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// openTestDB opens a throwaway sqlite database with the items shape, so the
// tests below operate on errors the real driver produces, not hand-built ones.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "sqlerr_test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	_, err = db.Exec(`CREATE TABLE items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL UNIQUE,
		priority INTEGER NOT NULL DEFAULT 1 CHECK (priority IN (1, 2, 3))
	)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}

	return db
}

// uniqueViolation forces the driver to emit a real UNIQUE constraint error.
func uniqueViolation(t *testing.T, db *sql.DB) error {
	t.Helper()

	if _, err := db.Exec(`INSERT INTO items (title) VALUES ('dup')`); err != nil {
		t.Fatalf("seed insert: %v", err)
	}
	_, err := db.Exec(`INSERT INTO items (title) VALUES ('dup')`)
	if err == nil {
		t.Fatal("expected unique violation, got nil")
	}
	return err
}

func TestConvertSQLiteError(t *testing.T) {
	db := openTestDB(t)
	err := uniqueViolation(t, db)

	var driverErr *sqlite.Error
	if !errors.As(err, &driverErr) {
		t.Fatalf("driver error is %T, want *sqlite.Error", err)
	}

	converted := ConvertSQLiteError(driverErr)
	if converted.Code != UniqueViolation {
		t.Errorf("Code = %v, want UniqueViolation", converted.Code)
	}
	if converted.TableName != "items" {
		t.Errorf("TableName = %q, want %q", converted.TableName, "items")
	}
	if converted.ColumnName != "title" {
		t.Errorf("ColumnName = %q, want %q", converted.ColumnName, "title")
	}
	if !errors.Is(converted, driverErr) {
		t.Error("converted error does not unwrap to the driver error")
	}
}

func TestErrCodeSeesThroughWrapping(t *testing.T) {
	db := openTestDB(t)
	err := errors.Wrap(uniqueViolation(t, db), "insert item")

	if code := ErrCode(err); code != UniqueViolation {
		t.Errorf("ErrCode = %v, want UniqueViolation", code)
	}
}

func TestErrCodeUnknownError(t *testing.T) {
	if code := ErrCode(errors.New("something else")); code != Other {
		t.Errorf("ErrCode = %v, want Other", code)
	}
}

func TestMapCode(t *testing.T) {
	tests := []struct {
		name string
		code int
		want Code
	}{
		{"unique", sqlite3.SQLITE_CONSTRAINT_UNIQUE, UniqueViolation},
		{"primary key", sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, UniqueViolation},
		{"foreign key", sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, ForeignKeyViolation},
		{"not null", sqlite3.SQLITE_CONSTRAINT_NOTNULL, NotNullViolation},
		{"check", sqlite3.SQLITE_CONSTRAINT_CHECK, CheckViolation},
		{"bare constraint", sqlite3.SQLITE_CONSTRAINT, CheckViolation},
		{"unrelated", sqlite3.SQLITE_BUSY, Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapCode(tt.code); got != tt.want {
				t.Errorf("MapCode(%d) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestParseConstraintTarget(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		wantTable  string
		wantColumn string
	}{
		{
			name:       "unique",
			message:    "UNIQUE constraint failed: items.title",
			wantTable:  "items",
			wantColumn: "title",
		},
		{
			name:       "not null",
			message:    "NOT NULL constraint failed: items.title",
			wantTable:  "items",
			wantColumn: "title",
		},
		{
			name:       "foreign key carries no target",
			message:    "FOREIGN KEY constraint failed",
			wantTable:  "",
			wantColumn: "",
		},
		{
			name:       "not a constraint message",
			message:    "database is locked",
			wantTable:  "",
			wantColumn: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, column := parseConstraintTarget(tt.message)
			if table != tt.wantTable || column != tt.wantColumn {
				t.Errorf("parseConstraintTarget(%q) = (%q, %q), want (%q, %q)",
					tt.message, table, column, tt.wantTable, tt.wantColumn)
			}
		})
	}
}

func TestGenerateErrorCode(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		errType Code
		want    string
	}{
		{"items unique", "items", UniqueViolation, "ITEM_ALREADY_EXISTS"},
		{"items not null", "items", NotNullViolation, "ITEM_REQUIRED"},
		{"items check", "items", CheckViolation, "ITEM_INVALID"},
		{"unknown table", "", ForeignKeyViolation, "RECORD_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := generateErrorCode(tt.table, tt.errType); got != tt.want {
				t.Errorf("generateErrorCode(%q, %v) = %q, want %q", tt.table, tt.errType, got, tt.want)
			}
		})
	}
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	db := openTestDB(t)
	err := HandleError(uniqueViolation(t, db))

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("HandleError returned %T, want *errs.HTTPError", err)
	}

	if httpErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", httpErr.Status)
	}
	if httpErr.Code != "ITEM_ALREADY_EXISTS" {
		t.Errorf("Code = %q, want ITEM_ALREADY_EXISTS", httpErr.Code)
	}
	if httpErr.Message != "Item with this title already exists" {
		t.Errorf("Message = %q, want %q", httpErr.Message, "Item with this title already exists")
	}
	if !httpErr.Override {
		t.Error("Override = false, want true")
	}
}

func TestHandleErrorNotNullViolation(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO items (title) VALUES (NULL)`)
	if err == nil {
		t.Fatal("expected not-null violation, got nil")
	}

	handled := HandleError(err)
	var httpErr *errs.HTTPError
	if !errors.As(handled, &httpErr) {
		t.Fatalf("HandleError returned %T, want *errs.HTTPError", handled)
	}

	if httpErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", httpErr.Status)
	}
	if httpErr.Code != "ITEM_REQUIRED" {
		t.Errorf("Code = %q, want ITEM_REQUIRED", httpErr.Code)
	}
	if len(httpErr.Errors) != 1 || httpErr.Errors[0].Field != "title" {
		t.Errorf("Errors = %+v, want one field error on title", httpErr.Errors)
	}
}

func TestHandleErrorCheckViolation(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO items (title, priority) VALUES ('t', 9)`)
	if err == nil {
		t.Fatal("expected check violation, got nil")
	}

	handled := HandleError(err)
	var httpErr *errs.HTTPError
	if !errors.As(handled, &httpErr) {
		t.Fatalf("HandleError returned %T, want *errs.HTTPError", handled)
	}
	if httpErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", httpErr.Status)
	}
}

func TestHandleErrorNoRows(t *testing.T) {
	handled := HandleError(sql.ErrNoRows)

	var httpErr *errs.HTTPError
	if !errors.As(handled, &httpErr) {
		t.Fatalf("HandleError returned %T, want *errs.HTTPError", handled)
	}
	if httpErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", httpErr.Status)
	}
}

func TestHandleErrorPassesThroughHTTPError(t *testing.T) {
	original := errs.NewNotFoundError("Item not found", true, nil)

	handled := HandleError(original)
	if handled != original {
		t.Errorf("HandleError rewrapped an HTTPError: got %v, want the original", handled)
	}
}

func TestHandleErrorUnknownErrorIs500(t *testing.T) {
	handled := HandleError(errors.New("disk exploded"))

	var httpErr *errs.HTTPError
	if !errors.As(handled, &httpErr) {
		t.Fatalf("HandleError returned %T, want *errs.HTTPError", handled)
	}
	if httpErr.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", httpErr.Status)
	}
	if httpErr.Message != http.StatusText(http.StatusInternalServerError) {
		t.Errorf("Message = %q leaks detail, want generic status text", httpErr.Message)
	}
}
