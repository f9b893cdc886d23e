package dialect

import (
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

type SqliteDialect struct{}

func (d *SqliteDialect) GetTablesQuery(schema string) (string, []any) {
	// Internal bookkeeping tables (sqlite_sequence, sqlite_stat1, ...) are not user data.
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\' ORDER BY name`, nil
}

func (d *SqliteDialect) GetColumnsQuery(schema, table string) (string, []any) {
	return `SELECT name, type FROM pragma_table_info(?) ORDER BY cid`, []any{table}
}

func (d *SqliteDialect) CurrentSchemaQuery() string {
	return ""
}

// SelectAllQuery wraps every column in an expression without a declared type. The
// driver parses TEXT in DATE, DATETIME and TIMESTAMP columns into time.Time; through
// the expression it returns the stored value unchanged.
func (d *SqliteDialect) SelectAllQuery(table string, columns []string) string {
	return fmt.Sprintf("SELECT %s FROM %s", columnList(columns, func(c string) string {
		q := d.QuoteIdent(c)
		return "CASE WHEN 1 THEN " + q + " END AS " + q
	}), d.QuoteIdent(table))
}

func (d *SqliteDialect) QuoteIdent(name string) string {
	return quoteWith(name, `"`, `"`)
}

func (d *SqliteDialect) Placeholder(index int) string {
	return "?"
}

// NormalizeType keeps the declared type exactly as written in the CREATE TABLE
// statement; SQLite has no catalog type names of its own.
func (d *SqliteDialect) NormalizeType(sqlType string) string {
	return sqlType
}

func (d *SqliteDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}
