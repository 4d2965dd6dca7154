package output

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// Formatter renders result rows to a writer.
type Formatter interface {
	// Format writes rows in the formatter's format.
	Format(rows []map[string]interface{}) error

	// SetOutput changes the output writer.
	SetOutput(w io.Writer)
}

// New returns the formatter registered under the given name: "table",
// "json", or "csv".
func New(name string, w io.Writer) (Formatter, error) {
	switch name {
	case "table":
		return NewTableFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q", name)
}

// columnNames collects the union of column names across rows in sorted
// order, so sparse rows still line up under a single header.
func columnNames(rows []map[string]interface{}) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, row := range rows {
		for col := range row {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}
	sort.Strings(columns)
	return columns
}

// formatValue renders one cell. Nil renders empty; times render in a
// fixed readable layout.
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	case float32, float64:
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
