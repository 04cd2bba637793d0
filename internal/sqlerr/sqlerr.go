// Package sqlerr specifically handles database driver errors.
//
// It parses cryptic result codes from the sqlite driver and
// converts them into user-friendly messages (e.g., converting
// a "unique constraint violation" on items.title into a
// "Bad Request" error with code ITEM_ALREADY_EXISTS)
package sqlerr
