// Package rows evaluates compiled search predicates against in-memory
// rows, the map-per-row shape the parquet reader produces. It is the
// reference backend: every predicate variant is supported, string
// matching is case-insensitive, and absent or nil values fail every
// comparison.
package rows
