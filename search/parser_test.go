package search

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// renderNode prints a parse tree as an s-expression for compact test
// expectations. A trailing '!' marks the '-' negation shorthand.
func renderNode(n node) string {
	switch n := n.(type) {
	case *andNode:
		return fmt.Sprintf("(and %s %s)", renderNode(n.left), renderNode(n.right))
	case *orNode:
		return fmt.Sprintf("(or %s %s)", renderNode(n.left), renderNode(n.right))
	case *notNode:
		return fmt.Sprintf("(not %s)", renderNode(n.child))
	case *fieldCompare:
		return fmt.Sprintf("(cmp%s %s %s %s)", bang(n.negated), n.key, n.op, n.value)
	case *fieldIn:
		kind := "in"
		if n.notIn {
			kind = "notin"
		}
		return fmt.Sprintf("(%s%s %s [%s])", kind, bang(n.negated), n.key, strings.Join(n.values, " "))
	case *freeText:
		return fmt.Sprintf("(text%s %s)", bang(n.negated), n.raw)
	}
	return "?"
}

func bang(negated bool) string {
	if negated {
		return "!"
	}
	return ""
}

func TestParse_Expressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "field comparison",
			input: "status=active",
			want:  "(cmp status = active)",
		},
		{
			name:  "implicit and",
			input: "a b",
			want:  "(and (text a) (text b))",
		},
		{
			name:  "or binds loosest",
			input: "a or b c",
			want:  "(or (text a) (and (text b) (text c)))",
		},
		{
			name:  "not binds tightest",
			input: "not a and b",
			want:  "(and (not (text a)) (text b))",
		},
		{
			name:  "parens group",
			input: "(a or b) and c",
			want:  "(and (or (text a) (text b)) (text c))",
		},
		{
			name:  "minus shorthand on comparison",
			input: "-status=active",
			want:  "(cmp! status = active)",
		},
		{
			name:  "minus shorthand on group",
			input: "-(a b)",
			want:  "(not (and (text a) (text b)))",
		},
		{
			name:  "minus free text keeps sign",
			input: "-5",
			want:  "(text! -5)",
		},
		{
			name:  "in list",
			input: "status in (a, b)",
			want:  "(in status [a b])",
		},
		{
			name:  "not in list",
			input: "status not in (a, b)",
			want:  "(notin status [a b])",
		},
		{
			name:  "signed comparison value",
			input: "count:-5",
			want:  "(cmp count : -5)",
		},
		{
			name:  "quoted comparison value",
			input: `name="John Smith"`,
			want:  "(cmp name = John Smith)",
		},
		{
			name:  "keyword as value",
			input: "status=in",
			want:  "(cmp status = in)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := parse(tt.input)
			if err != nil {
				t.Fatalf("parse(%q) error = %v", tt.input, err)
			}
			if got := renderNode(tree.expr); got != tt.want {
				t.Errorf("parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_OrderBy(t *testing.T) {
	tree, err := parse("status=active order by -created, name")
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}
	if tree.expr == nil {
		t.Fatal("parse() expr = nil, want comparison")
	}
	want := []orderItem{{desc: true, key: "created"}, {desc: false, key: "name"}}
	if len(tree.orderBy) != len(want) {
		t.Fatalf("parse() orderBy = %d items, want %d", len(tree.orderBy), len(want))
	}
	for i, item := range want {
		if tree.orderBy[i].desc != item.desc || tree.orderBy[i].key != item.key {
			t.Errorf("orderBy[%d] = %+v, want %+v", i, tree.orderBy[i], item)
		}
	}

	tree, err = parse("order by name")
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}
	if tree.expr != nil {
		t.Errorf("parse() expr = %s, want nil", renderNode(tree.expr))
	}
	if len(tree.orderBy) != 1 {
		t.Errorf("parse() orderBy = %d items, want 1", len(tree.orderBy))
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantPos    int
		wantSymbol string
	}{
		{
			name:       "missing comparison value",
			input:      "status=",
			wantPos:    7,
			wantSymbol: "",
		},
		{
			name:       "unclosed paren",
			input:      "(a",
			wantPos:    2,
			wantSymbol: "",
		},
		{
			name:       "stray close paren",
			input:      "a )",
			wantPos:    2,
			wantSymbol: ")",
		},
		{
			name:       "empty in list",
			input:      "status in ()",
			wantPos:    11,
			wantSymbol: ")",
		},
		{
			name:       "leading keyword",
			input:      "and a",
			wantPos:    0,
			wantSymbol: "a",
		},
		{
			name:       "order by without column",
			input:      "a order by",
			wantPos:    10,
			wantSymbol: "",
		},
		{
			name:       "unterminated quote",
			input:      `name="abc`,
			wantPos:    9,
			wantSymbol: "",
		},
		{
			name:       "position counts characters not bytes",
			input:      "café )",
			wantPos:    5,
			wantSymbol: ")",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(tt.input)
			var serr *SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("parse(%q) error = %v, want *SyntaxError", tt.input, err)
			}
			if serr.Pos != tt.wantPos || serr.Symbol != tt.wantSymbol {
				t.Errorf("parse(%q) = pos %d symbol %q, want pos %d symbol %q",
					tt.input, serr.Pos, serr.Symbol, tt.wantPos, tt.wantSymbol)
			}
		})
	}
}
