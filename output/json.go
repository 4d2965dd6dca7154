package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONFormatter writes rows as JSON Lines, one object per line. HTML
// escaping is disabled so URLs and query strings round-trip readably.
type JSONFormatter struct {
	encoder *json.Encoder
}

// NewJSONFormatter creates a JSON Lines formatter.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	f := &JSONFormatter{}
	f.SetOutput(w)
	return f
}

// SetOutput sets the output writer.
func (f *JSONFormatter) SetOutput(w io.Writer) {
	f.encoder = json.NewEncoder(w)
	f.encoder.SetEscapeHTML(false)
}

// Format writes each row as one JSON object per line.
func (f *JSONFormatter) Format(rows []map[string]interface{}) error {
	for _, row := range rows {
		if err := f.encoder.Encode(row); err != nil {
			return fmt.Errorf("encode row: %w", err)
		}
	}
	return nil
}
