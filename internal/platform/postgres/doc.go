// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package, plus the embedded
// goose migrations that create the schema they rely on.
package postgres
