package dialect_test

import (
	"testing"

	"db-export/internal/dialect"
	"db-export/internal/schema"

	"github.com/stretchr/testify/require"
)

func TestDetectDriver(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost/db":            "postgres",
		"host=localhost dbname=x sslmode=off":    "postgres",
		"sqlserver://sa:pw@localhost?database=x": "sqlserver",
		"oracle://u:p@localhost:1521/XE":         "oracle",
		"root:root@tcp(127.0.0.1:3306)/sakila":   "mysql",
		"./demo.s3db":                            "sqlite",
		"file:demo.db?mode=ro":                   "sqlite",
	}
	for dsn, want := range cases {
		require.Equal(t, want, dialect.DetectDriver(dsn), dsn)
	}
}

func TestGetDialect(t *testing.T) {
	require.IsType(t, &dialect.PostgresDialect{}, dialect.GetDialect("postgres"))
	require.IsType(t, &dialect.MSSQLDialect{}, dialect.GetDialect("mssql"))
	require.IsType(t, &dialect.MSSQLDialect{}, dialect.GetDialect("sqlserver"))
	require.IsType(t, &dialect.OracleDialect{}, dialect.GetDialect("oracle"))
	require.IsType(t, &dialect.MysqlDialect{}, dialect.GetDialect("mysql"))
	require.IsType(t, &dialect.SqliteDialect{}, dialect.GetDialect("sqlite"))
}

func TestQuoteIdent(t *testing.T) {
	require.Equal(t, `"we""ird"`, (&dialect.SqliteDialect{}).QuoteIdent(`we"ird`))
	require.Equal(t, "`a``b`", (&dialect.MysqlDialect{}).QuoteIdent("a`b"))
	require.Equal(t, `"Users"`, (&dialect.PostgresDialect{}).QuoteIdent("Users"))
	require.Equal(t, "[a]]b]", (&dialect.MSSQLDialect{}).QuoteIdent("a]b"))
}

func TestSelectAllQuery(t *testing.T) {
	require.Equal(t, "SELECT * FROM [Users]", (&dialect.MSSQLDialect{}).SelectAllQuery("Users", nil))
	require.Equal(t, `SELECT "id", "name" FROM "Users"`,
		(&dialect.PostgresDialect{}).SelectAllQuery("Users", []string{"id", "name"}))
	require.Equal(t, `SELECT CASE WHEN 1 THEN "at" END AS "at", CASE WHEN 1 THEN "a""b" END AS "a""b" FROM "Ev"`,
		(&dialect.SqliteDialect{}).SelectAllQuery("Ev", []string{"at", `a"b`}))
}

func TestNormalizeType_FeedsClassifier(t *testing.T) {
	type tc struct {
		d    dialect.Dialect
		in   string
		want schema.FieldType
	}
	cases := []tc{
		{&dialect.SqliteDialect{}, "INTEGER", schema.FieldInteger},
		{&dialect.SqliteDialect{}, "integer", schema.FieldString}, // declared verbatim
		{&dialect.MysqlDialect{}, "bigint", schema.FieldInteger},
		{&dialect.MysqlDialect{}, "decimal", schema.FieldFloat},
		{&dialect.MysqlDialect{}, "double", schema.FieldFloat},
		{&dialect.MysqlDialect{}, "varchar", schema.FieldString},
		{&dialect.PostgresDialect{}, "int4", schema.FieldInteger},
		{&dialect.PostgresDialect{}, "float8", schema.FieldFloat},
		{&dialect.PostgresDialect{}, "numeric", schema.FieldFloat},
		{&dialect.PostgresDialect{}, "timestamptz", schema.FieldString},
		{&dialect.MSSQLDialect{}, "money", schema.FieldFloat},
		{&dialect.MSSQLDialect{}, "nvarchar", schema.FieldString},
		{&dialect.OracleDialect{}, "INTEGER", schema.FieldInteger},
		{&dialect.OracleDialect{}, "DECIMAL", schema.FieldFloat},
		{&dialect.OracleDialect{}, "VARCHAR2", schema.FieldString},
	}
	for _, c := range cases {
		got := schema.ClassifyType(c.d.NormalizeType(c.in))
		require.Equal(t, c.want, got, "%T %s", c.d, c.in)
	}
}

func TestGetSchemaName_Defaults(t *testing.T) {
	require.Equal(t, "public", (&dialect.PostgresDialect{}).GetSchemaName(""))
	require.Equal(t, "dbo", (&dialect.MSSQLDialect{}).GetSchemaName(""))
	require.Equal(t, "sales", (&dialect.MSSQLDialect{}).GetSchemaName("sales"))
	require.Equal(t, "", (&dialect.MysqlDialect{}).GetSchemaName(""))
}

func TestPlaceholder_ZeroBased(t *testing.T) {
	require.Equal(t, "$1", (&dialect.PostgresDialect{}).Placeholder(0))
	require.Equal(t, "@p2", (&dialect.MSSQLDialect{}).Placeholder(1))
	require.Equal(t, ":1", (&dialect.OracleDialect{}).Placeholder(0))
	require.Equal(t, "?", (&dialect.SqliteDialect{}).Placeholder(0))
}
