package search

import (
	"fmt"
	"strings"
)

// SyntaxError reports input the grammar could not consume. Pos is the
// 0-based character offset of the offending character; Symbol is that
// single character, or empty at end of input. Callers can use Pos to
// render a caret under the search box.
type SyntaxError struct {
	Pos    int
	Symbol string
}

func (e *SyntaxError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("unexpected end of input at position %d", e.Pos)
	}
	return fmt.Sprintf("unknown symbol %q at position %d", e.Symbol, e.Pos)
}

// UnknownFieldError reports a search key with no registered field.
type UnknownFieldError struct {
	Key string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Key)
}

// AmbiguousFieldError reports a search key that prefix-matches two or more
// registered fields.
type AmbiguousFieldError struct {
	Key        string
	Candidates []string
}

func (e *AmbiguousFieldError) Error() string {
	return fmt.Sprintf("ambiguous field %q (matches %s)", e.Key, strings.Join(e.Candidates, ", "))
}

// InvalidOperatorError reports an operator a field type does not support.
type InvalidOperatorError struct {
	Op   string
	Type FieldType
}

func (e *InvalidOperatorError) Error() string {
	return fmt.Sprintf("invalid operator %q for %s field", e.Op, e.Type)
}

// InvalidValueError reports a value a field's modifier could not coerce.
type InvalidValueError struct {
	Type  FieldType
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s value %q", e.Type, e.Value)
}

// InvalidNullOperatorError reports a none/null sentinel combined with an
// operator other than '=' or ':'.
type InvalidNullOperatorError struct {
	Op string
}

func (e *InvalidNullOperatorError) Error() string {
	return fmt.Sprintf("invalid operator %q for null value", e.Op)
}
