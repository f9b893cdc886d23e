package dialect

import (
	"strings"
)

// quoteWith wraps name in open/close and doubles any embedded close character.
func quoteWith(name, open, close string) string {
	return open + strings.ReplaceAll(name, close, close+close) + close
}

// columnList renders columns through expr, or "*" when there are none.
func columnList(columns []string, expr func(string) string) string {
	if len(columns) == 0 {
		return "*"
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = expr(c)
	}
	return strings.Join(parts, ", ")
}

// canonicalType maps catalog type names shared by the server dialects onto the
// declared-type vocabulary understood by schema.ClassifyType.
// Server decimal/numeric map to REAL (Float), unlike a SQLite column declared NUMERIC,
// which classifies as Integer: server numerics usually carry a fractional scale.
func canonicalType(t string) (string, bool) {
	switch t {
	case "tinyint", "smallint", "mediumint", "int", "integer", "bigint", "year",
		"int2", "int4", "int8", "serial", "bigserial", "smallserial":
		return "INTEGER", true
	case "decimal", "numeric", "money", "smallmoney", "dec", "fixed":
		return "REAL", true
	case "float", "float8", "double precision":
		return "FLOAT", true
	case "real", "double", "float4":
		return "REAL", true
	}
	return "", false
}

// DefaultNormalizeType lowercases the catalog name, maps known numeric families and
// upper-cases everything else.
func DefaultNormalizeType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if c, ok := canonicalType(t); ok {
		return c
	}
	return strings.ToUpper(t)
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}
