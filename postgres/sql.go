package postgres

import (
	"fmt"
	"strings"

	"github.com/pkkid/searchquery/search"
)

// SQLConfig configures predicate rendering.
type SQLConfig struct {
	// ColumnExpr maps target field names to pre-quoted SQL expressions.
	// Unmapped targets render as quoted identifiers.
	ColumnExpr map[string]string
}

// WhereSQL renders a predicate as a SQL fragment with $n placeholders,
// starting at startArg. The WHERE keyword is not included.
func WhereSQL(pred search.Predicate, cfg SQLConfig, startArg int) (sql string, args []any, nextArg int, err error) {
	if startArg < 1 {
		startArg = 1
	}
	c := sqlCompiler{cfg: cfg, nextArg: startArg}
	out, err := c.compile(pred)
	if err != nil {
		return "", nil, startArg, err
	}
	return out, c.args, c.nextArg, nil
}

// OrderBySQL renders resolved order-by columns as a SQL fragment. The
// ORDER BY keyword is not included; empty input renders empty.
func OrderBySQL(orderBy []search.OrderBy, cfg SQLConfig) string {
	parts := make([]string, 0, len(orderBy))
	for _, item := range orderBy {
		direction := "ASC"
		if item.Desc {
			direction = "DESC"
		}
		parts = append(parts, cfg.columnExpr(item.Target)+" "+direction)
	}
	return strings.Join(parts, ", ")
}

func (cfg SQLConfig) columnExpr(target string) string {
	if expr, ok := cfg.ColumnExpr[target]; ok && expr != "" {
		return expr
	}
	return quoteIdent(target)
}

type sqlCompiler struct {
	cfg     SQLConfig
	args    []any
	nextArg int
}

func (c *sqlCompiler) compile(pred search.Predicate) (string, error) {
	switch p := pred.(type) {
	case search.Noop:
		return "TRUE", nil
	case search.NoResults:
		return "FALSE", nil
	case search.And:
		return c.compileLogical("AND", p.Children)
	case search.Or:
		return c.compileLogical("OR", p.Children)
	case search.Not:
		child, err := c.compile(p.Child)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(NOT %s)", child), nil
	case search.IsNull:
		return fmt.Sprintf("(%s IS NULL)", c.cfg.columnExpr(p.Target)), nil
	case search.Compare:
		return c.compileCompare(p)
	}
	return "", fmt.Errorf("unsupported predicate %T", pred)
}

func (c *sqlCompiler) compileLogical(op string, children []search.Predicate) (string, error) {
	if len(children) == 0 {
		return "", fmt.Errorf("%s requires at least one child", op)
	}
	parts := make([]string, 0, len(children))
	for _, child := range children {
		childSQL, err := c.compile(child)
		if err != nil {
			return "", err
		}
		parts = append(parts, childSQL)
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "+op+" ")), nil
}

// compileCompare renders one comparison leaf. String equality and
// containment go through ILIKE with wildcards escaped, so '=' is exact
// but case-insensitive and ':' is a substring match.
func (c *sqlCompiler) compileCompare(p search.Compare) (string, error) {
	expr := c.cfg.columnExpr(p.Target)

	if p.Value.Kind == search.ValueString {
		switch p.Op {
		case search.OpEq:
			return fmt.Sprintf("(%s ILIKE %s)", expr, c.bindPattern(escapeLike(p.Value.Str))), nil
		case search.OpNe:
			return fmt.Sprintf("(%s NOT ILIKE %s)", expr, c.bindPattern(escapeLike(p.Value.Str))), nil
		case search.OpContains:
			return fmt.Sprintf("(%s ILIKE %s)", expr, c.bindPattern("%"+escapeLike(p.Value.Str)+"%")), nil
		case search.OpNotContains:
			return fmt.Sprintf("(%s NOT ILIKE %s)", expr, c.bindPattern("%"+escapeLike(p.Value.Str)+"%")), nil
		}
	}

	op, ok := sqlOperators[p.Op]
	if !ok {
		return "", fmt.Errorf("unsupported operator %s for %s", p.Op, p.Target)
	}
	return fmt.Sprintf("(%s %s %s)", expr, op, c.bind(bindValue(p.Value))), nil
}

var sqlOperators = map[search.CompareOp]string{
	search.OpEq:  "=",
	search.OpNe:  "<>",
	search.OpGt:  ">",
	search.OpGte: ">=",
	search.OpLt:  "<",
	search.OpLte: "<=",
}

func (c *sqlCompiler) bind(v any) string {
	ph := fmt.Sprintf("$%d", c.nextArg)
	c.nextArg++
	c.args = append(c.args, v)
	return ph
}

// bindPattern binds an ILIKE pattern with an explicit escape character,
// so user input cannot smuggle wildcards.
func (c *sqlCompiler) bindPattern(pattern string) string {
	return c.bind(pattern) + ` ESCAPE '\'`
}

func bindValue(v search.Value) any {
	switch v.Kind {
	case search.ValueBool:
		return v.Bool
	case search.ValueNumber:
		return v.Number
	case search.ValueString:
		return v.Str
	case search.ValueTime:
		return v.Time
	}
	return nil
}

// escapeLike neutralizes LIKE wildcards and the escape character itself.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// quoteIdent double-quotes an identifier, quoting each dotted part
// separately so schema-qualified names work.
func quoteIdent(ident string) string {
	parts := strings.Split(ident, ".")
	for i, part := range parts {
		parts[i] = `"` + strings.ReplaceAll(part, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}
