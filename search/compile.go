package search

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// compareOps maps query operators to positive leaf operators.
var compareOps = map[string]CompareOp{
	"=":  OpEq,
	">":  OpGt,
	">=": OpGte,
	"<":  OpLt,
	"<=": OpLte,
	":":  OpContains,
}

// Compile parses and compiles a search string into a backend-neutral
// predicate tree plus resolved order-by columns. Blank input compiles to
// Noop (match everything). Any error compiles to NoResults (match
// nothing) alongside the error, so a bad search never widens a result
// set.
func (s *Search) Compile(searchstr string) Result {
	if strings.TrimSpace(searchstr) == "" {
		return Result{Predicate: Noop{}}
	}
	tree, err := parse(searchstr)
	if err != nil {
		return Result{Predicate: NoResults{}, Err: err}
	}

	result := Result{Predicate: Noop{}}
	if tree.expr != nil {
		pred, err := s.compileNode(tree.expr, false)
		if err != nil {
			return Result{Predicate: NoResults{}, Err: err}
		}
		result.Predicate = pred
	}
	for _, item := range tree.orderBy {
		field, err := s.lookup(item.key)
		if err != nil {
			result.Predicate = NoResults{}
			result.Err = err
			return result
		}
		result.OrderBy = append(result.OrderBy, OrderBy{Target: field.Target, Desc: item.desc})
	}
	return result
}

// compileNode lowers one parse node. Instead of emitting Not nodes,
// negation is threaded down as the exclude flag and resolved at the
// leaves by operator reversal, so the output tree is negation-normal.
// Under exclude, AND and OR swap per De Morgan.
func (s *Search) compileNode(n node, exclude bool) (Predicate, error) {
	switch n := n.(type) {
	case *andNode:
		left, err := s.compileNode(n.left, exclude)
		if err != nil {
			return nil, err
		}
		right, err := s.compileNode(n.right, exclude)
		if err != nil {
			return nil, err
		}
		if exclude {
			return disjoin(left, right), nil
		}
		return conjoin(left, right), nil

	case *orNode:
		left, err := s.compileNode(n.left, exclude)
		if err != nil {
			return nil, err
		}
		right, err := s.compileNode(n.right, exclude)
		if err != nil {
			return nil, err
		}
		if exclude {
			return conjoin(left, right), nil
		}
		return disjoin(left, right), nil

	case *notNode:
		return s.compileNode(n.child, !exclude)

	case *fieldCompare:
		return s.compileCompare(n, exclude)

	case *fieldIn:
		return s.compileIn(n, exclude)

	case *freeText:
		return s.compileFreeText(n, exclude)
	}
	return nil, fmt.Errorf("unhandled parse node %T", n)
}

// compileCompare lowers a "column <op> value" clause.
func (s *Search) compileCompare(n *fieldCompare, exclude bool) (Predicate, error) {
	neg := n.negated != exclude
	field, err := s.lookup(n.key)
	if err != nil {
		return nil, err
	}
	if isNone(n.value) {
		if n.op != "=" && n.op != ":" {
			return nil, &InvalidNullOperatorError{Op: n.op}
		}
		if neg {
			return Not{Child: IsNull{Target: field.Target}}, nil
		}
		return IsNull{Target: field.Target}, nil
	}
	if !validOperators[field.Type][n.op] {
		return nil, &InvalidOperatorError{Op: n.op, Type: field.Type}
	}
	value, err := field.Modifier(n.value, s.env)
	if err != nil {
		return nil, err
	}
	pred := buildLeaf(field.Target, n.op, value, n.value)
	if neg {
		pred = negateTree(pred)
	}
	return pred, nil
}

// compileIn lowers "column [NOT] IN (a, b, ...)" into the equivalent
// disjunction of equality leaves. NOT IN under an odd number of enclosing
// negations flips back to plain membership.
func (s *Search) compileIn(n *fieldIn, exclude bool) (Predicate, error) {
	neg := n.negated != exclude
	if n.notIn {
		neg = !neg
	}
	field, err := s.lookup(n.key)
	if err != nil {
		return nil, err
	}

	leaves := make([]Predicate, 0, len(n.values))
	for _, valuestr := range n.values {
		if isNone(valuestr) {
			leaves = append(leaves, IsNull{Target: field.Target})
			continue
		}
		value, err := field.Modifier(valuestr, s.env)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, buildLeaf(field.Target, "=", value, valuestr))
	}
	pred := disjoin(leaves...)
	if neg {
		pred = negateTree(pred)
	}
	return pred, nil
}

// compileFreeText fans an untargeted term out over the generic fields:
// substring match on generic strings and, when the term is numeric, fuzzy
// match on generic numbers. No generic fields means nothing can match.
func (s *Search) compileFreeText(n *freeText, exclude bool) (Predicate, error) {
	neg := n.negated != exclude
	numeric := isNumber(n.raw)

	var leaves []Predicate
	for _, field := range s.ordered {
		if !field.Generic {
			continue
		}
		switch field.Type {
		case TypeStr:
			value := Value{Kind: ValueString, Str: n.value}
			leaves = append(leaves, Compare{Target: field.Target, Op: OpContains, Value: value})
		case TypeNum:
			if numeric {
				number, _ := strconv.ParseFloat(n.raw, 64)
				leaves = append(leaves, fuzzyContains(field.Target, number, n.raw))
			}
		}
	}
	if len(leaves) == 0 {
		return NoResults{}, nil
	}
	pred := disjoin(leaves...)
	if neg {
		pred = negateTree(pred)
	}
	return pred, nil
}

// buildLeaf emits the positive predicate for one field comparison.
// Date ranges expand by operator: '=' covers the whole range, '>' and
// '>=' both mean on-or-after its start, '<' and '<=' before-or-at its
// start. Numeric ':' is the fuzzy-contains match; boolean ':' is plain
// equality.
func buildLeaf(target, op string, value Value, valuestr string) Predicate {
	if value.Kind == ValueTimeRange {
		min := Value{Kind: ValueTime, Time: value.Min}
		max := Value{Kind: ValueTime, Time: value.Max}
		switch op {
		case ">", ">=":
			return Compare{Target: target, Op: OpGte, Value: min}
		case "<", "<=":
			return Compare{Target: target, Op: OpLte, Value: min}
		}
		return conjoin(
			Compare{Target: target, Op: OpGte, Value: min},
			Compare{Target: target, Op: OpLt, Value: max},
		)
	}
	if op == ":" && value.Kind == ValueNumber {
		return fuzzyContains(target, value.Number, valuestr)
	}
	if op == ":" && value.Kind == ValueBool {
		return Compare{Target: target, Op: OpEq, Value: value}
	}
	return Compare{Target: target, Op: compareOps[op], Value: value}
}

// fuzzyContains matches numbers that "start with" the typed digits: the
// half-open band [q, q+variance) where the variance is one unit of the
// last typed decimal place. Both signs are covered unless the term is
// explicitly negative.
func fuzzyContains(target string, number float64, valuestr string) Predicate {
	positive := !strings.HasPrefix(strings.TrimSpace(valuestr), "-")
	q := math.Abs(number)
	variance := fuzzyVariance(valuestr)

	branches := []Predicate{conjoin(
		Compare{Target: target, Op: OpLte, Value: numValue(-q)},
		Compare{Target: target, Op: OpGt, Value: numValue(-q - variance)},
	)}
	if positive {
		branches = append(branches, conjoin(
			Compare{Target: target, Op: OpGte, Value: numValue(q)},
			Compare{Target: target, Op: OpLt, Value: numValue(q + variance)},
		))
	}
	return disjoin(branches...)
}

// fuzzyVariance is 10^-sigdigs where sigdigs counts the digits typed
// after the decimal point, rounded back to that many places to shed float
// noise.
func fuzzyVariance(valuestr string) float64 {
	sigdigs := 0
	if i := strings.IndexByte(valuestr, '.'); i >= 0 {
		for _, c := range valuestr[i+1:] {
			if c < '0' || c > '9' {
				break
			}
			sigdigs++
		}
	}
	pow := math.Pow(10, float64(sigdigs))
	return math.Round(math.Pow(0.1, float64(sigdigs))*pow) / pow
}

func numValue(number float64) Value {
	return Value{Kind: ValueNumber, Number: number}
}

// negateTree complements a compiled subtree: leaf operators reverse, AND
// and OR swap, IsNull gains a Not wrapper. The result stays
// negation-normal.
func negateTree(p Predicate) Predicate {
	switch p := p.(type) {
	case Compare:
		p.Op = p.Op.negate()
		return p
	case And:
		children := make([]Predicate, 0, len(p.Children))
		for _, child := range p.Children {
			children = append(children, negateTree(child))
		}
		return disjoin(children...)
	case Or:
		children := make([]Predicate, 0, len(p.Children))
		for _, child := range p.Children {
			children = append(children, negateTree(child))
		}
		return conjoin(children...)
	case Not:
		return p.Child
	case IsNull:
		return Not{Child: p}
	case NoResults:
		return Noop{}
	case Noop:
		return NoResults{}
	}
	return Not{Child: p}
}
