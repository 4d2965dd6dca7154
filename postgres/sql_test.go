package postgres

import (
	"reflect"
	"testing"
	"time"

	"github.com/pkkid/searchquery/search"
)

var testNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func newTestSearch(t *testing.T) *search.Search {
	t.Helper()
	s, err := search.New([]search.Field{
		{Key: "name", Type: search.TypeStr, Generic: true},
		{Key: "email", Type: search.TypeStr},
		{Key: "status", Type: search.TypeStr},
		{Key: "count", Type: search.TypeNum},
		{Key: "price", Type: search.TypeNum, Target: "unit_price"},
		{Key: "active", Type: search.TypeBool},
		{Key: "created", Type: search.TypeDate},
	},
		search.WithLocation(time.UTC),
		search.WithNow(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("search.New() error = %v", err)
	}
	return s
}

func TestWhereSQL(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "blank input",
			query:    "",
			wantSQL:  "TRUE",
			wantArgs: nil,
		},
		{
			name:     "string equality is case-insensitive",
			query:    "status=active",
			wantSQL:  `("status" ILIKE $1 ESCAPE '\')`,
			wantArgs: []any{"active"},
		},
		{
			name:     "string contains adds wildcards",
			query:    "name:ali",
			wantSQL:  `("name" ILIKE $1 ESCAPE '\')`,
			wantArgs: []any{"%ali%"},
		},
		{
			name:     "percent in value is escaped",
			query:    "name:50%",
			wantSQL:  `("name" ILIKE $1 ESCAPE '\')`,
			wantArgs: []any{`%50\%%`},
		},
		{
			name:     "negated string equality",
			query:    "-status=active",
			wantSQL:  `("status" NOT ILIKE $1 ESCAPE '\')`,
			wantArgs: []any{"active"},
		},
		{
			name:     "numeric comparison",
			query:    "count>5",
			wantSQL:  `("count" > $1)`,
			wantArgs: []any{float64(5)},
		},
		{
			name:     "implicit and numbers placeholders",
			query:    "status=active count>5",
			wantSQL:  `(("status" ILIKE $1 ESCAPE '\') AND ("count" > $2))`,
			wantArgs: []any{"active", float64(5)},
		},
		{
			name:     "target rename",
			query:    "price<=2.5",
			wantSQL:  `("unit_price" <= $1)`,
			wantArgs: []any{2.5},
		},
		{
			name:     "boolean",
			query:    "active=yes",
			wantSQL:  `("active" = $1)`,
			wantArgs: []any{true},
		},
		{
			name:     "null sentinel",
			query:    "email=none",
			wantSQL:  `("email" IS NULL)`,
			wantArgs: nil,
		},
		{
			name:     "negated null",
			query:    "-email=none",
			wantSQL:  `(NOT ("email" IS NULL))`,
			wantArgs: nil,
		},
		{
			name:    "date equality expands to range",
			query:   "created=2024",
			wantSQL: `(("created" >= $1) AND ("created" < $2))`,
			wantArgs: []any{
				time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name:    "fuzzy number bands",
			query:   "count:5",
			wantSQL: `((("count" <= $1) AND ("count" > $2)) OR (("count" >= $3) AND ("count" < $4)))`,
			wantArgs: []any{
				float64(-5), float64(-6), float64(5), float64(6),
			},
		},
	}

	s := newTestSearch(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.Compile(tt.query)
			if result.Err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.query, result.Err)
			}
			sql, args, _, err := WhereSQL(result.Predicate, SQLConfig{}, 1)
			if err != nil {
				t.Fatalf("WhereSQL(%q) error = %v", tt.query, err)
			}
			if sql != tt.wantSQL {
				t.Errorf("WhereSQL(%q) = %s, want %s", tt.query, sql, tt.wantSQL)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("WhereSQL(%q) args = %v, want %v", tt.query, args, tt.wantArgs)
			}
		})
	}
}

func TestWhereSQL_StartArg(t *testing.T) {
	s := newTestSearch(t)
	result := s.Compile("count>5")
	sql, args, nextArg, err := WhereSQL(result.Predicate, SQLConfig{}, 3)
	if err != nil {
		t.Fatalf("WhereSQL() error = %v", err)
	}
	if sql != `("count" > $3)` {
		t.Errorf("WhereSQL() = %s, want placeholder $3", sql)
	}
	if len(args) != 1 || nextArg != 4 {
		t.Errorf("WhereSQL() args = %v nextArg = %d, want 1 arg and nextArg 4", args, nextArg)
	}
}

func TestWhereSQL_ColumnExpr(t *testing.T) {
	s := newTestSearch(t)
	result := s.Compile("name:ali")
	cfg := SQLConfig{ColumnExpr: map[string]string{"name": "meta->>'name'"}}
	sql, _, _, err := WhereSQL(result.Predicate, cfg, 1)
	if err != nil {
		t.Fatalf("WhereSQL() error = %v", err)
	}
	if sql != `(meta->>'name' ILIKE $1 ESCAPE '\')` {
		t.Errorf("WhereSQL() = %s, want mapped column expression", sql)
	}
}

func TestOrderBySQL(t *testing.T) {
	orderBy := []search.OrderBy{
		{Target: "created", Desc: true},
		{Target: "unit_price"},
	}
	if got := OrderBySQL(orderBy, SQLConfig{}); got != `"created" DESC, "unit_price" ASC` {
		t.Errorf("OrderBySQL() = %s", got)
	}
	if got := OrderBySQL(nil, SQLConfig{}); got != "" {
		t.Errorf("OrderBySQL(nil) = %q, want empty", got)
	}
}

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "users", want: `"users"`},
		{input: "public.users", want: `"public"."users"`},
		{input: `we"ird`, want: `"we""ird"`},
	}
	for _, tt := range tests {
		if got := quoteIdent(tt.input); got != tt.want {
			t.Errorf("quoteIdent(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
