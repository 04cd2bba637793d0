package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/todo-api/internal/errs"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"modernc.org/sqlite"
)

// ErrCode reports the mapped sqlerr.Code for a given error.
//
// Behavior:
//   - If err can be unwrapped into *sqlerr.Error, return its Code.
//   - If err is a raw driver error, convert it first.
//   - Otherwise return sqlerr.Other.
//
// This is useful if you want to branch on the error category without
// caring about the HTTP mapping (repositories and tests do this).
func ErrCode(err error) Code {
	var sqlErr *Error
	// errors.As walks the error chain (using Unwrap()) and tries to find *Error.
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}

	var driverErr *sqlite.Error
	if errors.As(err, &driverErr) {
		return ConvertSQLiteError(driverErr).Code
	}

	return Other
}

// ConvertSQLiteError converts a raw driver error into our custom sqlerr.Error.
//
// sqlite.Error carries only:
//   - Code(): the extended result code (e.g. 2067 for a unique violation)
//   - Error(): the message text
//
// Table/column metadata has to be parsed from the message, because the
// driver does not expose it structurally.
func ConvertSQLiteError(src *sqlite.Error) *Error {
	table, column := parseConstraintTarget(src.Error())

	return &Error{
		Code:         MapCode(src.Code()), // map result code to friendly enum
		DatabaseCode: src.Code(),          // keep original extended code
		Message:      src.Error(),         // driver's message
		TableName:    table,
		ColumnName:   column,
		driverErr:    src, // store original for Unwrap() and debugging
	}
}

// generateErrorCode creates consistent "application error codes" from DB errors.
//
// Output format:
//
//	<DOMAIN>_<ACTION>
//
// Example:
//
//	items + UniqueViolation => ITEM_ALREADY_EXISTS
//
// Rules:
//   - DOMAIN comes from tableName (uppercased, singularized crudely by removing trailing 'S')
//   - ACTION depends on violation type
//
// These codes are meant for machines (frontend logic, analytics), not humans.
func generateErrorCode(tableName string, errType Code) string {
	// If table is unknown, default to RECORD to avoid empty domain.
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)

	// Very naive singularization:
	// "ITEMS" -> "ITEM"
	// It won't handle "companies" etc, but good enough for many schemas.
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	// Decide what kind of "action" code to generate.
	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage produces an end-user-facing error message.
//
// This message is intended for clients / UI, not for logs.
// It uses the parsed table/column info to phrase messages in a more human way.
func formatUserFriendlyMessage(sqlErr *Error) string {
	// Pick an entity name that the message will refer to.
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		// Example: "The referenced item does not exist"
		return fmt.Sprintf("The referenced %s does not exist", strings.ToLower(entityName))

	case UniqueViolation:
		// Placeholder word "identifier" is later replaced if we can infer a column name.
		// Example becomes: "Item with this title already exists"
		return fmt.Sprintf("%s with this identifier already exists", entityName)

	case NotNullViolation:
		// Use column name for "required" message.
		// Example: "The Title is required"
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		// CHECK constraints fail when values violate certain conditions.
		// Example: "The Priority value does not meet required conditions"
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		// Fallback for unknown DB errors.
		return "An error occurred while processing your request"
	}
}

// getEntityName tries to infer an entity name from table/column data.
//
// Priority rules:
//  1. If column ends with "_id", use that base name. (Best for FK relations)
//     e.g. "item_id" -> "Item"
//  2. Otherwise use table name, singularized if it ends with "s".
//  3. Otherwise fallback to "Record".
func getEntityName(tableName, columnName string) string {
	// Most reliable for foreign keys: column like "item_id".
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	// Fallback: table name.
	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "Record"
}

// humanizeText converts snake_case (or lower-ish identifiers) into Title Case.
//
// Example:
//
//	"created_at" -> "Created At"
//
// It uses x/text/cases for proper title casing rules.
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// HandleError converts a low-level database error into an application-level error.
//
// Output:
//   - If already *errs.HTTPError: returned unchanged
//   - If *sqlite.Error: mapped into a specific errs.NewBadRequestError or errs.NewInternalServerError
//   - If sql.ErrNoRows: mapped to errs.NewNotFoundError
//   - Otherwise: errs.NewInternalServerError
//
// This function is intended to be called in repositories/services after a DB
// call fails, and again by the global error handler as a last resort.
func HandleError(err error) error {
	// If it's already an HTTPError, don't re-wrap it.
	// This prevents double-wrapping and preserves exact error shape.
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	// Handle driver errors (constraint violations, etc.)
	var driverErr *sqlite.Error
	if errors.As(err, &driverErr) {
		// Convert into our structured error.
		sqlErr := ConvertSQLiteError(driverErr)

		// A plain I/O or corruption error is not client-correctable.
		if sqlErr.Code == Other && !isConstraintMessage(sqlErr.Message) {
			return errs.NewInternalServerError()
		}

		// Create:
		// - a machine-friendly error code (e.g. ITEM_ALREADY_EXISTS)
		// - a user-friendly message (e.g. "Item with this title already exists")
		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			// Foreign key violation usually means reference doesn't exist.
			return errs.NewBadRequestError(userMessage, false, &errorCode, nil)

		case UniqueViolation:
			// Unique violation means already exists.
			// Inject the column that caused it into the message.
			if sqlErr.ColumnName != "" {
				// Replace "identifier" placeholder with actual field name.
				userMessage = strings.ReplaceAll(userMessage, "identifier", strings.ToLower(sqlErr.ColumnName))
			}
			// override=true here suggests you want client UI to show this message directly.
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil)

		case NotNullViolation:
			// Not-null violation maps nicely to field-level errors.
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors)

		case CheckViolation:
			// CHECK constraint failures are also usually bad request.
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil)

		default:
			// Unknown/other DB errors should not leak details to clients.
			return errs.NewInternalServerError()
		}
	}

	// Handle "no rows found" errors (common for SELECT queries).
	//
	// Repositories normally translate absence into a nil record themselves;
	// this branch catches the ones that slip through.
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	// Default fallback: treat unknown error as 500.
	return errs.NewInternalServerError()
}
