package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Reader reads one parquet file and returns rows as maps keyed by column
// name.
type Reader struct {
	file   *os.File
	pqFile *parquet.File
}

// NewReader opens and validates a parquet file.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}
	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	return &Reader{file: file, pqFile: pqFile}, nil
}

// ReadAll loads every row into memory. Fine for the file sizes a search
// CLI handles; not for multi-gigabyte files.
func (r *Reader) ReadAll() ([]map[string]interface{}, error) {
	rows := make([]map[string]interface{}, 0)

	pq := parquet.NewReader(r.pqFile)
	defer func() { _ = pq.Close() }()

	for {
		row := make(map[string]interface{})
		if err := pq.Read(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Close releases the underlying file handle. Safe to call twice.
func (r *Reader) Close() error {
	if r.file != nil {
		file := r.file
		r.file = nil
		return file.Close()
	}
	return nil
}

// ReadGlob loads rows from every parquet file matching the glob pattern.
// When the pattern expands to more than one file, each row gains a
// "_file" column naming its source. A plain path reads that single file
// with no tagging.
func ReadGlob(pattern string) ([]map[string]interface{}, error) {
	if !strings.ContainsAny(pattern, "*?[]{}") {
		r, err := NewReader(pattern)
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		return r.ReadAll()
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}

	var allRows []map[string]interface{}
	for _, path := range matches {
		r, err := NewReader(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		rows, readErr := r.ReadAll()
		closeErr := r.Close()
		if readErr != nil {
			return nil, fmt.Errorf("read rows from %s: %w", path, readErr)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("close %s: %w", path, closeErr)
		}
		if len(matches) > 1 {
			for i := range rows {
				rows[i]["_file"] = path
			}
		}
		allRows = append(allRows, rows...)
	}
	return allRows, nil
}
