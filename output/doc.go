// Package output renders search result rows to a terminal or pipe. It
// defines the Formatter interface and ships table, JSON Lines, and CSV
// implementations, all working on the []map[string]interface{} row shape
// the reader and rows packages produce.
package output
