// Package reader loads Apache Parquet files into the map-per-row shape
// the rows package evaluates. It can also derive a search field registry
// straight from the file schema, so any parquet file is searchable
// without hand-written field definitions.
package reader
