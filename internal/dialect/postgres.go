package dialect

import (
	"fmt"

	"github.com/lib/pq"
)

type PostgresDialect struct{}

func (d *PostgresDialect) GetTablesQuery(schema string) (string, []any) {
	// use $1 placeholder
	return `SELECT table_name FROM information_schema.tables WHERE table_schema = $1 AND table_type = 'BASE TABLE'`, []any{schema}
}

func (d *PostgresDialect) GetColumnsQuery(schema, table string) (string, []any) {
	// UDT_NAME (int4, float8, ...) is more precise than DATA_TYPE for classification.
	return `SELECT column_name, udt_name FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`, []any{schema, table}
}

func (d *PostgresDialect) CurrentSchemaQuery() string {
	return ""
}

func (d *PostgresDialect) SelectAllQuery(table string, columns []string) string {
	return fmt.Sprintf("SELECT %s FROM %s", columnList(columns, d.QuoteIdent), d.QuoteIdent(table))
}

func (d *PostgresDialect) QuoteIdent(name string) string {
	return pq.QuoteIdentifier(name)
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}
