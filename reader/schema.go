package reader

import (
	"github.com/parquet-go/parquet-go"
	"github.com/pkkid/searchquery/search"
)

// Fields derives a search field registry from the parquet schema. Leaf
// columns map by logical type first, physical type second; nested groups
// flatten to dot-notation names. String and numeric columns are marked
// generic so free-text terms search them.
func (r *Reader) Fields() []search.Field {
	var fields []search.Field
	for _, field := range r.pqFile.Schema().Fields() {
		fields = append(fields, leafFields(field, "")...)
	}
	return fields
}

func leafFields(field parquet.Field, prefix string) []search.Field {
	name := field.Name()
	if prefix != "" {
		name = prefix + "." + name
	}

	if children := field.Fields(); len(children) > 0 {
		var fields []search.Field
		for _, child := range children {
			fields = append(fields, leafFields(child, name)...)
		}
		return fields
	}
	if field.Type() == nil {
		return nil
	}

	ftype, generic := searchType(field)
	return []search.Field{{Key: name, Target: name, Type: ftype, Generic: generic}}
}

// searchType maps a parquet leaf column to a search field type and
// whether it should join the generic free-text set.
func searchType(field parquet.Field) (search.FieldType, bool) {
	// Parameterized logical types render with their arguments, so test
	// the type fields rather than the String() form.
	if logical := field.Type().LogicalType(); logical != nil {
		switch {
		case logical.UTF8 != nil, logical.Enum != nil, logical.Json != nil, logical.UUID != nil:
			return search.TypeStr, true
		case logical.Date != nil, logical.Time != nil, logical.Timestamp != nil:
			return search.TypeDate, false
		case logical.Integer != nil, logical.Decimal != nil:
			return search.TypeNum, true
		}
	}
	switch field.Type().Kind() {
	case parquet.Boolean:
		return search.TypeBool, false
	case parquet.Int32, parquet.Int64, parquet.Int96, parquet.Float, parquet.Double:
		return search.TypeNum, true
	}
	return search.TypeStr, true
}
