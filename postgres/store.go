package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkkid/searchquery/search"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Store runs compiled searches against one PostgreSQL table through a
// pgx connection pool.
type Store struct {
	pool  *pgxpool.Pool
	table string
	cfg   SQLConfig
}

// NewStore builds a Store for the given table, which may be
// schema-qualified.
func NewStore(pool *pgxpool.Pool, table string, cfg SQLConfig) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("nil pgx pool")
	}
	table = strings.TrimSpace(table)
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Store{pool: pool, table: table, cfg: cfg}, nil
}

// Select runs the compiled search and returns matching rows as maps
// keyed by column name. A non-positive limit means no limit. A Result
// carrying a compile error is refused rather than silently returning
// nothing.
func (s *Store) Select(ctx context.Context, result search.Result, limit int) ([]map[string]any, error) {
	if result.Err != nil {
		return nil, result.Err
	}
	sql, args, err := s.buildSelect(result, limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make(map[string]any, len(fields))
		for i, field := range fields {
			row[field.Name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.table, err)
	}
	return out, nil
}

// Count returns the number of rows matching the compiled predicate.
func (s *Store) Count(ctx context.Context, result search.Result) (int64, error) {
	if result.Err != nil {
		return 0, result.Err
	}
	where, args, _, err := WhereSQL(result.Predicate, s.cfg, 1)
	if err != nil {
		return 0, err
	}
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", quoteIdent(s.table), where)

	var count int64
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", s.table, err)
	}
	return count, nil
}

func (s *Store) buildSelect(result search.Result, limit int) (string, []any, error) {
	where, args, nextArg, err := WhereSQL(result.Predicate, s.cfg, 1)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT * FROM %s WHERE %s", quoteIdent(s.table), where)
	if orderBy := OrderBySQL(result.OrderBy, s.cfg); orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(orderBy)
	}
	if limit > 0 {
		fmt.Fprintf(&sb, " LIMIT $%d", nextArg)
		args = append(args, limit)
	}
	return sb.String(), args, nil
}
