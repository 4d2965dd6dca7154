package rows

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pkkid/searchquery/search"
)

// Row is one record keyed by target field name.
type Row = map[string]interface{}

// Apply filters rows by the compiled predicate and sorts them by the
// compiled order-by columns. The input slice is not modified.
func Apply(rows []Row, result search.Result) ([]Row, error) {
	filtered, err := Filter(rows, result.Predicate)
	if err != nil {
		return nil, err
	}
	return Sort(filtered, result.OrderBy), nil
}

// Filter returns the rows matching the predicate.
func Filter(rows []Row, pred search.Predicate) ([]Row, error) {
	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		match, err := Eval(pred, row)
		if err != nil {
			return nil, err
		}
		if match {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}

// Eval reports whether a single row matches the predicate.
func Eval(pred search.Predicate, row Row) (bool, error) {
	switch p := pred.(type) {
	case search.Noop:
		return true, nil
	case search.NoResults:
		return false, nil
	case search.And:
		for _, child := range p.Children {
			match, err := Eval(child, row)
			if err != nil || !match {
				return false, err
			}
		}
		return true, nil
	case search.Or:
		for _, child := range p.Children {
			match, err := Eval(child, row)
			if err != nil {
				return false, err
			}
			if match {
				return true, nil
			}
		}
		return false, nil
	case search.Not:
		match, err := Eval(p.Child, row)
		return !match, err
	case search.IsNull:
		value, exists := row[p.Target]
		return !exists || value == nil, nil
	case search.Compare:
		return evalCompare(p, row)
	}
	return false, fmt.Errorf("unhandled predicate %T", pred)
}

// evalCompare evaluates one comparison leaf. Absent or nil values never
// match, mirroring SQL NULL semantics.
func evalCompare(p search.Compare, row Row) (bool, error) {
	value, exists := row[p.Target]
	if !exists || value == nil {
		return false, nil
	}

	switch p.Value.Kind {
	case search.ValueBool:
		b, ok := toBool(value)
		if !ok {
			return false, fmt.Errorf("field %q: cannot compare %T with bool", p.Target, value)
		}
		switch p.Op {
		case search.OpEq:
			return b == p.Value.Bool, nil
		case search.OpNe:
			return b != p.Value.Bool, nil
		}
		return false, nil

	case search.ValueNumber:
		n, ok := toFloat64(value)
		if !ok {
			return false, fmt.Errorf("field %q: cannot compare %T with number", p.Target, value)
		}
		return compareNumbers(n, p.Op, p.Value.Number), nil

	case search.ValueString:
		s, ok := toString(value)
		if !ok {
			return false, fmt.Errorf("field %q: cannot compare %T with string", p.Target, value)
		}
		return compareStrings(s, p.Op, p.Value.Str), nil

	case search.ValueTime:
		t, ok := toTime(value)
		if !ok {
			return false, fmt.Errorf("field %q: cannot compare %T with time", p.Target, value)
		}
		return compareTimes(t, p.Op, p.Value.Time), nil
	}
	return false, fmt.Errorf("field %q: unhandled value kind %v", p.Target, p.Value.Kind)
}

// compareNumbers uses an epsilon scaled to the magnitudes for equality,
// so float32 columns compare sanely against parsed float64 values.
func compareNumbers(left float64, op search.CompareOp, right float64) bool {
	const epsilon = 1e-9
	diff := math.Abs(left - right)
	threshold := epsilon * math.Max(1.0, math.Max(math.Abs(left), math.Abs(right)))
	switch op {
	case search.OpEq:
		return diff < threshold
	case search.OpNe:
		return diff >= threshold
	case search.OpGt:
		return left > right
	case search.OpGte:
		return left >= right
	case search.OpLt:
		return left < right
	case search.OpLte:
		return left <= right
	}
	return false
}

// compareStrings matches case-insensitively for both equality and
// substring containment.
func compareStrings(left string, op search.CompareOp, right string) bool {
	switch op {
	case search.OpEq:
		return strings.EqualFold(left, right)
	case search.OpNe:
		return !strings.EqualFold(left, right)
	case search.OpContains:
		return strings.Contains(strings.ToLower(left), strings.ToLower(right))
	case search.OpNotContains:
		return !strings.Contains(strings.ToLower(left), strings.ToLower(right))
	}
	return false
}

func compareTimes(left time.Time, op search.CompareOp, right time.Time) bool {
	switch op {
	case search.OpEq:
		return left.Equal(right)
	case search.OpNe:
		return !left.Equal(right)
	case search.OpGt:
		return left.After(right)
	case search.OpGte:
		return !left.Before(right)
	case search.OpLt:
		return left.Before(right)
	case search.OpLte:
		return !left.After(right)
	}
	return false
}

// Sort returns a copy of rows ordered by the given columns. Absent and
// nil values sort first ascending.
func Sort(rows []Row, orderBy []search.OrderBy) []Row {
	if len(orderBy) == 0 {
		return rows
	}
	sorted := make([]Row, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		for _, item := range orderBy {
			cmp := compareValues(sorted[i][item.Target], sorted[j][item.Target])
			if cmp == 0 {
				continue
			}
			if item.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return sorted
}

// compareValues orders two row values of the same logical type; values of
// incomparable types rank equal.
func compareValues(a, b interface{}) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	if aNum, ok := toFloat64(a); ok {
		if bNum, ok := toFloat64(b); ok {
			switch {
			case aNum < bNum:
				return -1
			case aNum > bNum:
				return 1
			}
			return 0
		}
	}
	if aTime, ok := toTime(a); ok {
		if bTime, ok := toTime(b); ok {
			switch {
			case aTime.Before(bTime):
				return -1
			case aTime.After(bTime):
				return 1
			}
			return 0
		}
	}
	if aStr, ok := toString(a); ok {
		if bStr, ok := toString(b); ok {
			return strings.Compare(strings.ToLower(aStr), strings.ToLower(bStr))
		}
	}
	if aBool, ok := toBool(a); ok {
		if bBool, ok := toBool(b); ok {
			switch {
			case !aBool && bBool:
				return -1
			case aBool && !bBool:
				return 1
			}
			return 0
		}
	}
	return 0
}

func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	}
	return 0, false
}

func toString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func toBool(v interface{}) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// timeLayouts are the string forms accepted for date-typed row values.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// toTime accepts time.Time values directly and common string layouts.
func toTime(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.ParseInLocation(layout, val, time.UTC); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
