package dialect

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

type MysqlDialect struct{}

func (d *MysqlDialect) GetTablesQuery(schema string) (string, []any) {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'`, []any{schema}
}

func (d *MysqlDialect) GetColumnsQuery(schema, table string) (string, []any) {
	return `SELECT COLUMN_NAME, DATA_TYPE FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`, []any{schema, table}
}

func (d *MysqlDialect) CurrentSchemaQuery() string {
	return "SELECT DATABASE()"
}

func (d *MysqlDialect) SelectAllQuery(table string, columns []string) string {
	return fmt.Sprintf("SELECT %s FROM %s", columnList(columns, d.QuoteIdent), d.QuoteIdent(table))
}

func (d *MysqlDialect) QuoteIdent(name string) string {
	return quoteWith(name, "`", "`")
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}
