package search

import "unicode/utf8"

// parser builds a parseTree from a token stream. Precedence, loosest to
// tightest binding: OR, AND (explicit or by juxtaposition), NOT, atoms.
type parser struct {
	input  string
	tokens []Token
	pos    int
}

// parse parses a search string into a boolean expression and an optional
// trailing order-by clause. Any unconsumed input yields a *SyntaxError
// carrying the character offset and the character found there.
func parse(input string) (*parseTree, error) {
	p := &parser{input: input, tokens: tokenize(input)}
	tree := &parseTree{}

	if !p.at(TokenOrderBy) && !p.at(TokenEOF) && !p.at(TokenError) {
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		tree.expr = expr
	}

	if p.at(TokenOrderBy) {
		items, err := p.parseOrderBy()
		if err != nil {
			return nil, err
		}
		tree.orderBy = items
	}

	if !p.at(TokenEOF) {
		return nil, p.errHere()
	}
	return tree, nil
}

func (p *parser) current() Token {
	return p.lookahead(0)
}

func (p *parser) lookahead(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *parser) at(kind TokenKind) bool {
	return p.current().Kind == kind
}

func (p *parser) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// errHere builds a SyntaxError pointing at the current token. Token
// offsets are byte-based; the reported position counts characters so a
// caret rendered under the input lines up past multibyte runes.
func (p *parser) errHere() error {
	pos := p.current().Pos
	if pos > len(p.input) {
		pos = len(p.input)
	}
	symbol := ""
	if pos < len(p.input) {
		r, _ := utf8.DecodeRuneInString(p.input[pos:])
		symbol = string(r)
	}
	return &SyntaxError{Pos: utf8.RuneCountInString(p.input[:pos]), Symbol: symbol}
}

// startsAtom reports whether tok can begin a new atom, which is how
// juxtaposed expressions bind as an implicit AND.
func startsAtom(tok Token) bool {
	switch tok.Kind {
	case TokenWord, TokenQuoted, TokenMinus, TokenLeftParen, TokenNot:
		return true
	}
	return false
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(TokenOr) {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &orNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if p.at(TokenAnd) {
			p.advance()
		} else if !startsAtom(p.current()) {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &andNode{left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if p.at(TokenNot) {
		p.advance()
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &notNode{child: child}, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (node, error) {
	negated := false
	if p.at(TokenMinus) {
		negated = true
		p.advance()
	}

	tok := p.current()
	switch tok.Kind {
	case TokenLeftParen:
		p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.at(TokenRightParen) {
			return nil, p.errHere()
		}
		p.advance()
		if negated {
			expr = &notNode{child: expr}
		}
		return expr, nil

	case TokenQuoted:
		p.advance()
		return &freeText{negated: negated, value: tok.Text, raw: rawText(negated, tok.Text), pos: tok.Pos}, nil

	case TokenWord:
		next := p.lookahead(1)
		if next.Kind == TokenOperator {
			p.advance()
			p.advance()
			value, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			return &fieldCompare{negated: negated, key: tok.Text, op: next.Text, value: value, pos: tok.Pos}, nil
		}
		if next.Kind == TokenIn ||
			(next.Kind == TokenNot && p.lookahead(2).Kind == TokenIn) {
			return p.parseFieldIn(negated)
		}
		p.advance()
		return &freeText{negated: negated, value: tok.Text, raw: rawText(negated, tok.Text), pos: tok.Pos}, nil
	}
	return nil, p.errHere()
}

// parseValue reads a comparison or list value: a bare term, a quoted term,
// or a term with a leading '-' sign.
func (p *parser) parseValue() (string, error) {
	sign := ""
	if p.at(TokenMinus) {
		sign = "-"
		p.advance()
	}
	tok := p.current()
	switch tok.Kind {
	case TokenWord, TokenQuoted, TokenAnd, TokenOr, TokenNot, TokenIn:
		p.advance()
		return sign + tok.Text, nil
	}
	return "", p.errHere()
}

// parseFieldIn parses "column [NOT] IN ( value, ... )". The value list is
// never empty: an immediate ')' is a syntax error.
func (p *parser) parseFieldIn(negated bool) (node, error) {
	column := p.advance()
	notIn := false
	if p.at(TokenNot) {
		notIn = true
		p.advance()
	}
	p.advance() // IN

	if !p.at(TokenLeftParen) {
		return nil, p.errHere()
	}
	p.advance()

	var values []string
	for {
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		values = append(values, value)
		if !p.at(TokenComma) {
			break
		}
		p.advance()
	}
	if !p.at(TokenRightParen) {
		return nil, p.errHere()
	}
	p.advance()

	return &fieldIn{negated: negated, key: column.Text, notIn: notIn, values: values, pos: column.Pos}, nil
}

// parseOrderBy parses the trailing "ORDER BY col, -col, ..." clause. A
// leading '-' marks the column descending.
func (p *parser) parseOrderBy() ([]orderItem, error) {
	p.advance() // ORDER BY
	var items []orderItem
	for {
		desc := false
		if p.at(TokenMinus) {
			desc = true
			p.advance()
		}
		tok := p.current()
		if tok.Kind != TokenWord {
			return nil, p.errHere()
		}
		p.advance()
		items = append(items, orderItem{desc: desc, key: tok.Text, pos: tok.Pos})
		if !p.at(TokenComma) {
			return items, nil
		}
		p.advance()
	}
}

// rawText rebuilds the original signed token for numeric free-text search,
// where an explicit '-' must be preserved.
func rawText(negated bool, value string) string {
	if negated {
		return "-" + value
	}
	return value
}
