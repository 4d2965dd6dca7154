package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkkid/searchquery/output"
	"github.com/pkkid/searchquery/reader"
	"github.com/pkkid/searchquery/rows"
	"github.com/pkkid/searchquery/search"
)

var (
	queryFlag   = flag.String("q", "", "Search string (e.g., \"status=active count>10 order by -created\")")
	formatFlag  = flag.String("f", "table", "Output format: table, json, csv")
	limitFlag   = flag.Int("limit", 0, "Limit number of rows (0 = unlimited)")
	fieldsFlag  = flag.Bool("fields", false, "List the searchable fields and exit")
	explainFlag = flag.Bool("explain", false, "Print the compiled predicate instead of running the search")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file.parquet>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Search parquet files with a human-friendly query language.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s data.parquet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -q \"status=active count>10\" data.parquet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -q \"created>'last week' order by -created\" data.parquet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -fields data.parquet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -f csv -q \"name:smith\" 'data/*.parquet'\n", os.Args[0])
	}

	flag.Parse()

	if *limitFlag < 0 {
		fmt.Fprintf(os.Stderr, "Error: -limit must be non-negative, got %d\n", *limitFlag)
		os.Exit(1)
	}
	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: missing parquet file argument\n\n")
		flag.Usage()
		os.Exit(1)
	}
	pattern := flag.Arg(0)

	paths, err := resolvePaths(pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fields, err := deriveFields(paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s, err := search.New(fields)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *fieldsFlag {
		printFields(s)
		return
	}

	result := s.Compile(*queryFlag)
	if result.Err != nil {
		printCompileError(*queryFlag, result.Err)
		os.Exit(1)
	}

	if *explainFlag {
		fmt.Printf("WHERE: %s\n", result.Predicate)
		if len(result.OrderBy) > 0 {
			parts := make([]string, 0, len(result.OrderBy))
			for _, item := range result.OrderBy {
				direction := "asc"
				if item.Desc {
					direction = "desc"
				}
				parts = append(parts, item.Target+" "+direction)
			}
			fmt.Printf("ORDER BY: %s\n", strings.Join(parts, ", "))
		}
		return
	}

	data, err := reader.ReadGlob(pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	matched, err := rows.Apply(data, result)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *limitFlag > 0 && len(matched) > *limitFlag {
		matched = matched[:*limitFlag]
	}

	formatter, err := output.New(*formatFlag, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Supported formats: table, json, csv\n")
		os.Exit(1)
	}
	if err := formatter.Format(matched); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
}

// resolvePaths expands a glob pattern, or returns a plain path as-is.
func resolvePaths(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[]{}") {
		return []string{pattern}, nil
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	return matches, nil
}

// deriveFields builds the field registry from the first file's schema.
// Multi-file reads also expose the _file tag column.
func deriveFields(paths []string) ([]search.Field, error) {
	r, err := reader.NewReader(paths[0])
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	fields := r.Fields()
	if len(paths) > 1 {
		fields = append(fields, search.Field{
			Key: "_file", Type: search.TypeStr, Desc: "source file path",
		})
	}
	return fields, nil
}

func printFields(s *search.Search) {
	meta := s.Meta()
	for _, key := range s.Keys() {
		fmt.Printf("%-24s %s\n", key, meta[key])
	}
}

// printCompileError reports a compile failure; syntax errors also render
// the query with a caret under the offending character.
func printCompileError(querystr string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var serr *search.SyntaxError
	if errors.As(err, &serr) && querystr != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", querystr)
		fmt.Fprintf(os.Stderr, "  %s^\n", strings.Repeat(" ", serr.Pos))
	}
}
