package dialect

// Dialect abstracts database-specific catalog queries and identifier rules.
type Dialect interface {
	// Metadata Queries (Schema Introspection)
	GetTablesQuery(schema string) (string, []any)
	GetColumnsQuery(schema, table string) (string, []any)
	CurrentSchemaQuery() string // empty when the dialect resolves schemas itself

	// Query Generation
	SelectAllQuery(table string, columns []string) string // every column when columns is empty
	QuoteIdent(name string) string
	Placeholder(index int) string // zero-based index; returns ?, $1, @p1, etc.

	// Helpers
	NormalizeType(sqlType string) string
	GetSchemaName(input string) string
}
