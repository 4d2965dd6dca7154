package search

import (
	"testing"
)

func TestTokenize_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenKind
	}{
		{
			name:  "field comparison",
			input: "status=active",
			want:  []TokenKind{TokenWord, TokenOperator, TokenWord, TokenEOF},
		},
		{
			name:  "spaced comparison",
			input: "count >= 10",
			want:  []TokenKind{TokenWord, TokenOperator, TokenWord, TokenEOF},
		},
		{
			name:  "boolean keywords",
			input: "a AND b or not c",
			want:  []TokenKind{TokenWord, TokenAnd, TokenWord, TokenOr, TokenNot, TokenWord, TokenEOF},
		},
		{
			name:  "in list",
			input: "status in (a, b)",
			want: []TokenKind{TokenWord, TokenIn, TokenLeftParen, TokenWord,
				TokenComma, TokenWord, TokenRightParen, TokenEOF},
		},
		{
			name:  "negation shorthand",
			input: "-status=active",
			want:  []TokenKind{TokenMinus, TokenWord, TokenOperator, TokenWord, TokenEOF},
		},
		{
			name:  "order by collapses",
			input: "order by -created, name",
			want:  []TokenKind{TokenOrderBy, TokenMinus, TokenWord, TokenComma, TokenWord, TokenEOF},
		},
		{
			name:  "order without by stays a word",
			input: "order status=active",
			want:  []TokenKind{TokenWord, TokenWord, TokenOperator, TokenWord, TokenEOF},
		},
		{
			name:  "quoted term",
			input: `"hello world"`,
			want:  []TokenKind{TokenQuoted, TokenEOF},
		},
		{
			name:  "unterminated quote",
			input: `"hello`,
			want:  []TokenKind{TokenError},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := tokenize(tt.input)
			if len(tokens) != len(tt.want) {
				t.Fatalf("tokenize() = %d tokens, want %d: %v", len(tokens), len(tt.want), tokens)
			}
			for i, kind := range tt.want {
				if tokens[i].Kind != kind {
					t.Errorf("token %d kind = %v, want %v (%q)", i, tokens[i].Kind, kind, tokens[i].Text)
				}
			}
		})
	}
}

func TestTokenize_Terms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "operator splits column-shaped prefix",
			input: "status=active",
			want:  "status",
		},
		{
			name:  "operator kept after non-column char",
			input: "foo-bar=baz",
			want:  "foo-bar=baz",
		},
		{
			name:  "date value keeps dashes",
			input: "2024-03-15",
			want:  "2024-03-15",
		},
		{
			name:  "quoted escapes resolve",
			input: `"say \"hi\""`,
			want:  `say "hi"`,
		},
		{
			name:  "single quotes work too",
			input: `'hello world'`,
			want:  "hello world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := tokenize(tt.input)
			var got string
			for _, tok := range tokens {
				if tok.Kind == TokenWord || tok.Kind == TokenQuoted {
					got = tok.Text
					break
				}
			}
			if got != tt.want {
				t.Errorf("first term = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenize_Positions(t *testing.T) {
	tokens := tokenize("status = active")
	wantPos := []int{0, 7, 9, 15}
	for i, pos := range wantPos {
		if tokens[i].Pos != pos {
			t.Errorf("token %d pos = %d, want %d", i, tokens[i].Pos, pos)
		}
	}
}
