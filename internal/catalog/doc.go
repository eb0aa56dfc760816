// Package catalog persists albums the user chose to keep.
//
// The Store wraps a SQLite database (modernc.org/sqlite, no cgo) holding one
// row per disc ID and category. Rows are written only on explicit save and
// are never consulted by lookups, so every identification still goes to a
// freedb server. Schema changes bump schemaVersion; users clear the database
// to adopt a new schema.
package catalog
