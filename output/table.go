package output

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// TableFormatter writes rows as an aligned ASCII table, the default for
// terminal output.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer.
func (f *TableFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format renders the rows under a header of the union of column names,
// followed by a row count. Empty input prints only the count.
func (f *TableFormatter) Format(rows []map[string]interface{}) error {
	if len(rows) > 0 {
		columns := columnNames(rows)
		table := tablewriter.NewWriter(f.writer)
		table.SetHeader(columns)
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)

		for _, row := range rows {
			record := make([]string, len(columns))
			for i, col := range columns {
				record[i] = formatValue(row[col])
			}
			table.Append(record)
		}
		table.Render()
	}
	_, err := fmt.Fprintf(f.writer, "%d rows\n", len(rows))
	return err
}
