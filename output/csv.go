package output

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVFormatter writes rows as CSV with a header row.
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a CSV formatter.
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer.
func (f *CSVFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format writes a header of the union of column names followed by one
// record per row. Empty input writes nothing.
func (f *CSVFormatter) Format(rows []map[string]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	w := csv.NewWriter(f.writer)
	columns := columnNames(rows)

	if err := w.Write(columns); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = formatValue(row[col])
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
