package core

import (
	"strings"
	"unicode"
)

// ResolveDBColumn returns the database column name for a column spec,
// falling back to snake_case conversion of the header name.
func ResolveDBColumn(spec ColumnSpec) string {
	if spec.DBColumn != "" {
		return spec.DBColumn
	}
	return toDBColumnName(spec.Name)
}

// ResolveFilterColumn maps a filter column to its database column.
// Returns false when the schema has no such column.
func ResolveFilterColumn(schema ColumnSchema, column string) (string, bool) {
	if column == OwnerField {
		return schema.OwnerColumn, schema.OwnerColumn != ""
	}
	for _, spec := range schema.Columns {
		if strings.EqualFold(spec.Name, column) {
			return ResolveDBColumn(spec), true
		}
	}
	return "", false
}

// toDBColumnName converts a header such as "zipCode" or "Zip Code" to "zip_code".
func toDBColumnName(name string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == ' ' || r == '-':
			b.WriteByte('_')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return b.String()
}
