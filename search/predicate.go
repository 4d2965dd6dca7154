package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CompareOp is the comparison operator of a leaf predicate.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
	OpContains
	OpNotContains
)

// String returns the operator in query-language form.
func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpContains:
		return ":"
	case OpNotContains:
		return "!:"
	}
	return "?"
}

// negate returns the operator matching the complement of op, keeping the
// emitted predicate tree in negation-normal form.
func (op CompareOp) negate() CompareOp {
	switch op {
	case OpEq:
		return OpNe
	case OpNe:
		return OpEq
	case OpGt:
		return OpLte
	case OpGte:
		return OpLt
	case OpLt:
		return OpGte
	case OpLte:
		return OpGt
	case OpContains:
		return OpNotContains
	case OpNotContains:
		return OpContains
	}
	return op
}

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueNumber
	ValueString
	ValueTime
	ValueTimeRange
)

// Value is a typed comparison value produced by a field modifier.
// ValueTimeRange carries a half-open interval [Min, Max) and only appears
// between the date modifier and the compiler; emitted Compare predicates
// hold scalar kinds.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Number float64
	Str    string
	Time   time.Time
	Min    time.Time
	Max    time.Time
}

// String renders the value for predicate display.
func (v Value) String() string {
	switch v.Kind {
	case ValueNull:
		return "null"
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ValueString:
		return strconv.Quote(v.Str)
	case ValueTime:
		return v.Time.Format("2006-01-02T15:04:05")
	case ValueTimeRange:
		return fmt.Sprintf("[%s, %s)", v.Min.Format("2006-01-02T15:04:05"), v.Max.Format("2006-01-02T15:04:05"))
	}
	return "?"
}

// Predicate is a backend-neutral filter tree. Storage adapters translate
// each variant into their native filter representation. Compiled trees are
// negation-normal: Not only ever wraps IsNull.
type Predicate interface {
	isPredicate()
	String() string
}

// Compare matches rows whose target field relates to Value under Op.
type Compare struct {
	Target string
	Op     CompareOp
	Value  Value
}

// And matches rows satisfying every child.
type And struct {
	Children []Predicate
}

// Or matches rows satisfying at least one child.
type Or struct {
	Children []Predicate
}

// Not inverts its child. Post-compile it only wraps IsNull.
type Not struct {
	Child Predicate
}

// IsNull matches rows where the target field is absent.
type IsNull struct {
	Target string
}

// NoResults is the sentinel predicate matching nothing.
type NoResults struct{}

// Noop is the sentinel predicate matching everything.
type Noop struct{}

func (Compare) isPredicate()   {}
func (And) isPredicate()       {}
func (Or) isPredicate()        {}
func (Not) isPredicate()       {}
func (IsNull) isPredicate()    {}
func (NoResults) isPredicate() {}
func (Noop) isPredicate()      {}

func (p Compare) String() string {
	return fmt.Sprintf("%s %s %s", p.Target, p.Op, p.Value)
}

func (p And) String() string {
	return joinPredicates(p.Children, " AND ")
}

func (p Or) String() string {
	return joinPredicates(p.Children, " OR ")
}

func (p Not) String() string {
	return fmt.Sprintf("(NOT %s)", p.Child)
}

func (p IsNull) String() string {
	return fmt.Sprintf("%s IS NULL", p.Target)
}

func (NoResults) String() string {
	return "FALSE"
}

func (Noop) String() string {
	return "TRUE"
}

func joinPredicates(children []Predicate, sep string) string {
	parts := make([]string, 0, len(children))
	for _, child := range children {
		parts = append(parts, child.String())
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// conjoin flattens nested ANDs into a single n-ary node and unwraps a
// lone child.
func conjoin(children ...Predicate) Predicate {
	return combine(children, true)
}

// disjoin is the OR dual of conjoin.
func disjoin(children ...Predicate) Predicate {
	return combine(children, false)
}

func combine(children []Predicate, and bool) Predicate {
	flat := make([]Predicate, 0, len(children))
	for _, child := range children {
		if and {
			if inner, ok := child.(And); ok {
				flat = append(flat, inner.Children...)
				continue
			}
		} else {
			if inner, ok := child.(Or); ok {
				flat = append(flat, inner.Children...)
				continue
			}
		}
		flat = append(flat, child)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	if and {
		return And{Children: flat}
	}
	return Or{Children: flat}
}
