// Package postgres renders compiled search predicates into
// parameterized PostgreSQL WHERE and ORDER BY fragments, and provides a
// pgx-backed store that runs them. String matching uses ILIKE so
// equality and containment stay case-insensitive, matching the
// in-memory backend.
package postgres
