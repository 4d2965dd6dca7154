package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func testOutputRows() []map[string]interface{} {
	return []map[string]interface{}{
		{"id": int64(1), "name": "alpha", "score": 1.5},
		{"id": int64(2), "name": "beta", "score": 7.25},
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"table", "json", "csv"} {
		if _, err := New(name, &bytes.Buffer{}); err != nil {
			t.Errorf("New(%q) error = %v", name, err)
		}
	}
	if _, err := New("xml", &bytes.Buffer{}); err == nil {
		t.Error("New(xml) error = nil, want error")
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter(&buf).Format(testOutputRows()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Format() = %d lines, want 2", len(lines))
	}
	var row map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &row); err != nil {
		t.Fatalf("line 0 is not valid JSON: %v", err)
	}
	if row["name"] != "alpha" {
		t.Errorf("line 0 name = %v, want alpha", row["name"])
	}
}

func TestJSONFormatter_NoHTMLEscaping(t *testing.T) {
	var buf bytes.Buffer
	rows := []map[string]interface{}{{"url": "https://example.com/?a=1&b=2"}}
	if err := NewJSONFormatter(&buf).Format(rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := buf.String(); !strings.Contains(got, "a=1&b=2") {
		t.Errorf("Format() = %q, want & left unescaped", got)
	}
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(testOutputRows()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Format() = %d lines, want 3", len(lines))
	}
	if lines[0] != "id,name,score" {
		t.Errorf("header = %q, want id,name,score", lines[0])
	}
	if lines[1] != "1,alpha,1.5" {
		t.Errorf("row 1 = %q, want 1,alpha,1.5", lines[1])
	}
}

func TestCSVFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(nil); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Format(nil) wrote %q, want nothing", buf.String())
	}
}

func TestCSVFormatter_SparseRows(t *testing.T) {
	rows := []map[string]interface{}{
		{"a": "x"},
		{"b": "y"},
	}
	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "a,b" {
		t.Errorf("header = %q, want a,b", lines[0])
	}
	if lines[1] != "x," || lines[2] != ",y" {
		t.Errorf("rows = %q %q, want x, and ,y", lines[1], lines[2])
	}
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableFormatter(&buf).Format(testOutputRows()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"id", "name", "alpha", "beta", "2 rows"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() output missing %q:\n%s", want, out)
		}
	}
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableFormatter(&buf).Format(nil); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "0 rows" {
		t.Errorf("Format(nil) = %q, want 0 rows", got)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		input interface{}
		want  string
	}{
		{input: nil, want: ""},
		{input: "text", want: "text"},
		{input: int64(42), want: "42"},
		{input: 1.5, want: "1.5"},
		{input: true, want: "true"},
		{input: time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC), want: "2024-03-05 10:30:00"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.input); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
