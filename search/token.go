package search

import "strings"

// TokenKind classifies a lexical token.
type TokenKind int

const (
	// Values
	TokenWord   TokenKind = iota // bare term or column name
	TokenQuoted                  // quoted term, quotes and escapes resolved

	// Keywords
	TokenAnd
	TokenOr
	TokenNot
	TokenIn
	TokenOrderBy

	// Operators and punctuation
	TokenOperator // >= <= != = > < :
	TokenMinus    // negation shorthand
	TokenComma
	TokenLeftParen
	TokenRightParen

	// Special
	TokenEOF
	TokenError
)

// Token is a lexical token with its byte offset in the input.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

// lexer tokenizes a search string.
type lexer struct {
	input string
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) ch() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *lexer) peek() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.pos++
	}
}

// isSpace matches ASCII whitespace only; multibyte runes are term bytes.
func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// isOperatorChar reports whether ch can start a comparison operator.
func isOperatorChar(ch byte) bool {
	return ch == '=' || ch == '<' || ch == '>' || ch == '!' || ch == ':'
}

// isColumnChar reports whether ch is valid in a column name.
func isColumnChar(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' ||
		ch >= '0' && ch <= '9' || ch == '_'
}

// isTermBoundary reports whether ch terminates a bare term.
func isTermBoundary(ch byte) bool {
	return ch == 0 || ch == '(' || ch == ')' || ch == ',' || ch == '\'' ||
		ch == '"' || isSpace(ch)
}

// readQuoted reads a quoted term. Backslash escapes the delimiter (and
// itself); any other escape sequence is preserved literally.
func (l *lexer) readQuoted(quote byte) (string, bool) {
	var sb strings.Builder
	l.pos++ // opening quote
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\\' && l.pos+1 < len(l.input) {
			next := l.input[l.pos+1]
			if next == quote || next == '\\' {
				sb.WriteByte(next)
				l.pos += 2
				continue
			}
		}
		if ch == quote {
			l.pos++
			return sb.String(), true
		}
		sb.WriteByte(ch)
		l.pos++
	}
	return sb.String(), false
}

// readTerm reads a bare term. While the consumed prefix is still
// column-shaped, an operator character ends the term so that
// "status=active" splits into a column, an operator, and a value; once the
// term contains other characters, operator characters are plain term
// characters and "foo-bar=baz" stays whole.
func (l *lexer) readTerm() string {
	start := l.pos
	columnShaped := true
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if isTermBoundary(ch) {
			break
		}
		if columnShaped && isOperatorChar(ch) && l.pos > start {
			break
		}
		if !isColumnChar(ch) {
			columnShaped = false
		}
		l.pos++
	}
	return l.input[start:l.pos]
}

// readOperator reads the longest matching comparison operator, or returns
// false if the characters at the cursor do not form one.
func (l *lexer) readOperator() (string, bool) {
	ch := l.ch()
	switch ch {
	case '>', '<', '!':
		if l.peek() == '=' {
			l.pos += 2
			return l.input[l.pos-2 : l.pos], true
		}
		if ch == '!' {
			return "", false
		}
		l.pos++
		return string(ch), true
	case '=', ':':
		l.pos++
		return string(ch), true
	}
	return "", false
}

func (l *lexer) next() Token {
	l.skipWhitespace()
	pos := l.pos
	ch := l.ch()

	switch {
	case ch == 0:
		return Token{Kind: TokenEOF, Pos: pos}
	case ch == '(':
		l.pos++
		return Token{Kind: TokenLeftParen, Text: "(", Pos: pos}
	case ch == ')':
		l.pos++
		return Token{Kind: TokenRightParen, Text: ")", Pos: pos}
	case ch == ',':
		l.pos++
		return Token{Kind: TokenComma, Text: ",", Pos: pos}
	case ch == '-':
		l.pos++
		return Token{Kind: TokenMinus, Text: "-", Pos: pos}
	case ch == '\'' || ch == '"':
		text, ok := l.readQuoted(ch)
		if !ok {
			return Token{Kind: TokenError, Text: "", Pos: len(l.input)}
		}
		return Token{Kind: TokenQuoted, Text: text, Pos: pos}
	case isOperatorChar(ch):
		if op, ok := l.readOperator(); ok {
			return Token{Kind: TokenOperator, Text: op, Pos: pos}
		}
	}

	text := l.readTerm()
	if text == "" {
		l.pos++
		return Token{Kind: TokenError, Text: string(ch), Pos: pos}
	}
	return Token{Kind: keywordKind(text), Text: text, Pos: pos}
}

// keywordKind maps reserved words to their keyword kinds. Keywords are
// case-insensitive and only recognized as whole tokens.
func keywordKind(word string) TokenKind {
	switch strings.ToLower(word) {
	case "and":
		return TokenAnd
	case "or":
		return TokenOr
	case "not":
		return TokenNot
	case "in":
		return TokenIn
	}
	return TokenWord
}

// tokenize returns all tokens from the input, ending with an EOF or error
// token. Adjacent ORDER BY words collapse into a single TokenOrderBy; a
// standalone "order" with no following "by" remains an ordinary term.
func tokenize(input string) []Token {
	lex := newLexer(input)
	var tokens []Token
	for {
		tok := lex.next()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF || tok.Kind == TokenError {
			break
		}
	}

	merged := tokens[:0]
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Kind == TokenWord && strings.EqualFold(tok.Text, "order") &&
			i+1 < len(tokens) && tokens[i+1].Kind == TokenWord &&
			strings.EqualFold(tokens[i+1].Text, "by") {
			merged = append(merged, Token{Kind: TokenOrderBy, Text: tok.Text + " " + tokens[i+1].Text, Pos: tok.Pos})
			i++
			continue
		}
		merged = append(merged, tok)
	}
	return merged
}
