package search

// node is a parsed boolean-expression node. The parser is the sole
// producer; nodes are immutable after construction and are discarded once
// compilation finishes.
type node interface {
	isNode()
}

// andNode joins two expressions with AND (explicit or by juxtaposition).
type andNode struct {
	left  node
	right node
}

// orNode joins two expressions with OR.
type orNode struct {
	left  node
	right node
}

// notNode negates a single child expression.
type notNode struct {
	child node
}

// fieldCompare is a "column <op> value" clause. negated is set by the
// leading '-' shorthand.
type fieldCompare struct {
	negated bool
	key     string
	op      string
	value   string
	pos     int
}

// fieldIn is a "column IN (a, b, ...)" clause; notIn flips it.
type fieldIn struct {
	negated bool
	key     string
	notIn   bool
	values  []string
	pos     int
}

// freeText is an untargeted search term. value is the term without the
// '-' shorthand; raw preserves the sign for numeric matching.
type freeText struct {
	negated bool
	value   string
	raw     string
	pos     int
}

func (*andNode) isNode()      {}
func (*orNode) isNode()       {}
func (*notNode) isNode()      {}
func (*fieldCompare) isNode() {}
func (*fieldIn) isNode()      {}
func (*freeText) isNode()     {}

// orderItem is one column of the trailing ORDER BY clause. It is never
// part of the boolean expression.
type orderItem struct {
	desc bool
	key  string
	pos  int
}

// parseTree is the full parse result for one search string.
type parseTree struct {
	expr    node // nil when the input holds only an order-by clause
	orderBy []orderItem
}
