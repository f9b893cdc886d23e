package dialect

import (
	"fmt"
	"strings"

	_ "github.com/sijms/go-ora/v2"
)

type OracleDialect struct{}

func (d *OracleDialect) GetTablesQuery(schema string) (string, []any) {
	// USER_TABLES lists tables owned by the current user; the schema argument is unused.
	return `SELECT TABLE_NAME FROM USER_TABLES`, nil
}

func (d *OracleDialect) GetColumnsQuery(schema, table string) (string, []any) {
	// NUMBER without scale is integral; with scale it carries fractions.
	return `
SELECT
    t.COLUMN_NAME,
    CASE
        WHEN t.DATA_TYPE = 'NUMBER' AND COALESCE(t.DATA_SCALE, 0) > 0 THEN 'DECIMAL'
        WHEN t.DATA_TYPE = 'NUMBER' THEN 'INTEGER'
        ELSE t.DATA_TYPE
    END
FROM USER_TAB_COLUMNS t
WHERE t.TABLE_NAME = :1
ORDER BY t.COLUMN_ID`, []any{table}
}

func (d *OracleDialect) CurrentSchemaQuery() string {
	return ""
}

func (d *OracleDialect) SelectAllQuery(table string, columns []string) string {
	return fmt.Sprintf("SELECT %s FROM %s", columnList(columns, d.QuoteIdent), d.QuoteIdent(table))
}

func (d *OracleDialect) QuoteIdent(name string) string {
	return quoteWith(name, `"`, `"`)
}

func (d *OracleDialect) Placeholder(index int) string {
	// Oracle uses :1, :2, etc. (1-based index)
	return fmt.Sprintf(":%d", index+1)
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	s := strings.ToUpper(strings.TrimSpace(sqlType))
	switch {
	case s == "INTEGER":
		return "INTEGER"
	case s == "DECIMAL", s == "BINARY_DOUBLE":
		return "REAL"
	case s == "FLOAT", s == "BINARY_FLOAT":
		return "FLOAT"
	}
	return s
}

func (d *OracleDialect) GetSchemaName(input string) string {
	return input
}
