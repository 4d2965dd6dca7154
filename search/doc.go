// Package search compiles free-form boolean search strings into
// backend-neutral predicate trees.
//
// A search string like
//
//	status=active AND count>10 OR "foo bar" ORDER BY -date
//
// is tokenized, parsed into a boolean expression, and lowered against a
// typed field registry into a Predicate tree of atomic comparisons joined
// by AND/OR, plus an ordered list of sort keys. The emitted tree is
// negation-normal: NOT never wraps a compound node, so storage adapters
// only translate leaf comparisons and boolean combinators.
//
// Example usage:
//
//	s, err := search.New([]search.Field{
//	    {Key: "name", Type: search.TypeStr, Generic: true},
//	    {Key: "count", Type: search.TypeNum},
//	    {Key: "date", Type: search.TypeDate},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result := s.Compile(`count>10 name:foo ORDER BY -date`)
//	if result.Err != nil {
//	    // surface to the user; result.Predicate is NoResults
//	}
//
// Compilation is synchronous and side-effect free. A Search is immutable
// after New and safe for concurrent Compile calls.
package search
