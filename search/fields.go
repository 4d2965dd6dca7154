package search

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FieldType is the data type of a registered search field. It determines
// the default modifier, the legal operators, and the comparison semantics
// the compiler applies.
type FieldType int

const (
	TypeBool FieldType = iota
	TypeDate
	TypeNum
	TypeStr
)

// String returns the lowercase type name.
func (t FieldType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeDate:
		return "date"
	case TypeNum:
		return "num"
	case TypeStr:
		return "str"
	}
	return "unknown"
}

// validOperators lists the query operators each field type accepts. Dates
// are never fuzzy-contains.
var validOperators = map[FieldType]map[string]bool{
	TypeBool: {"=": true, ":": true},
	TypeDate: {"=": true, ">": true, ">=": true, "<=": true, "<": true},
	TypeNum:  {"=": true, ">": true, ">=": true, "<=": true, "<": true, ":": true},
	TypeStr:  {"=": true, ":": true},
}

// Field describes one searchable field.
type Field struct {
	Key      string    // user-facing search key, unique case-insensitively
	Target   string    // backend field identifier; defaults to Key
	Type     FieldType // value type; selects default modifier and operators
	Modifier Modifier  // value coercion; nil selects the default for Type
	Generic  bool      // include in untargeted free-text search
	Desc     string    // human readable description
}

// defaultModifier returns the coercion function for a field type.
func defaultModifier(t FieldType) Modifier {
	switch t {
	case TypeBool:
		return Boolean
	case TypeDate:
		return Date
	case TypeNum:
		return Number
	default:
		return Identity
	}
}

// Search compiles search strings against a fixed field registry. It is
// immutable after New and safe for concurrent use.
type Search struct {
	fields  map[string]Field
	ordered []Field
	prefix  bool
	env     Env
}

// Option configures a Search.
type Option func(*Search)

// WithPrefixMatching enables or disables unambiguous case-insensitive
// prefix matching of field keys. Enabled by default.
func WithPrefixMatching(enabled bool) Option {
	return func(s *Search) { s.prefix = enabled }
}

// WithLocation sets the time zone used by date modifiers. Defaults to
// time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Search) { s.env.Location = loc }
}

// WithNow overrides the clock used to resolve relative dates such as
// "yesterday" or "last week". Intended for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Search) { s.env.Now = now }
}

// New builds a Search from an ordered field list. Field order is
// significant: untargeted free-text search fans out over generic fields in
// registration order.
func New(fields []Field, opts ...Option) (*Search, error) {
	s := &Search{
		fields: make(map[string]Field, len(fields)),
		prefix: true,
		env:    Env{Location: time.Local, Now: time.Now},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.env.Location == nil {
		s.env.Location = time.Local
	}
	if s.env.Now == nil {
		s.env.Now = time.Now
	}

	for _, field := range fields {
		if field.Key == "" {
			return nil, fmt.Errorf("field with empty search key")
		}
		if field.Target == "" {
			field.Target = field.Key
		}
		if field.Modifier == nil {
			field.Modifier = defaultModifier(field.Type)
		}
		key := strings.ToLower(field.Key)
		if _, exists := s.fields[key]; exists {
			return nil, fmt.Errorf("duplicate search key %q", field.Key)
		}
		s.fields[key] = field
		s.ordered = append(s.ordered, field)
	}
	return s, nil
}

// lookup resolves a search key to its field: exact case-insensitive match
// first, then unambiguous prefix match when enabled.
func (s *Search) lookup(key string) (Field, error) {
	lower := strings.ToLower(key)
	if field, ok := s.fields[lower]; ok {
		return field, nil
	}
	if s.prefix {
		var matches []Field
		for _, field := range s.ordered {
			if strings.HasPrefix(strings.ToLower(field.Key), lower) {
				matches = append(matches, field)
			}
		}
		if len(matches) == 1 {
			return matches[0], nil
		}
		if len(matches) >= 2 {
			candidates := make([]string, 0, len(matches))
			for _, m := range matches {
				candidates = append(candidates, m.Key)
			}
			return Field{}, &AmbiguousFieldError{Key: key, Candidates: candidates}
		}
	}
	return Field{}, &UnknownFieldError{Key: key}
}

// Meta describes the registered fields, keyed by search key. Useful for
// rendering help text next to a search box.
func (s *Search) Meta() map[string]string {
	meta := make(map[string]string, len(s.ordered))
	for _, field := range s.ordered {
		desc := field.Desc
		if desc == "" {
			desc = field.Target
		}
		meta[field.Key] = fmt.Sprintf("%s (%s)", desc, field.Type)
	}
	return meta
}

// Keys returns the registered search keys in sorted order.
func (s *Search) Keys() []string {
	keys := make([]string, 0, len(s.ordered))
	for _, field := range s.ordered {
		keys = append(keys, field.Key)
	}
	sort.Strings(keys)
	return keys
}

// OrderBy is one resolved sort key of the compile result.
type OrderBy struct {
	Target string
	Desc   bool
}

// Result is the outcome of one Compile call. On error Predicate is
// NoResults, so a malformed search degrades to an empty result set rather
// than an unfiltered one.
type Result struct {
	Predicate Predicate
	OrderBy   []OrderBy
	Err       error
}
