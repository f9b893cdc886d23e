package source

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"db-export/internal/dialect"
	"db-export/internal/schema"
)

// SQLOpener opens a database/sql connection and pairs it with the driver's dialect.
type SQLOpener struct {
	Driver string
	DSN    string
	Schema string
}

func (o SQLOpener) Open() (Source, error) {
	driver := o.Driver
	if driver == "" {
		driver = dialect.DetectDriver(o.DSN)
	}

	// The SQLite driver creates missing files on open.
	if driver == "sqlite" && isPlainPath(o.DSN) {
		if _, err := os.Stat(o.DSN); err != nil {
			return nil, fmt.Errorf("database file %s: %w", o.DSN, err)
		}
	}

	db, err := sql.Open(driver, o.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	d := dialect.GetDialect(driver)
	schemaName := d.GetSchemaName(o.Schema)
	if schemaName == "" {
		if q := d.CurrentSchemaQuery(); q != "" {
			var current sql.NullString
			if err := db.QueryRow(q).Scan(&current); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to get database name: %w", err)
			}
			if !current.Valid || current.String == "" {
				db.Close()
				return nil, fmt.Errorf("no database selected in DSN")
			}
			schemaName = current.String
		}
	}

	return NewSQLSource(db, d, schemaName), nil
}

func isPlainPath(dsn string) bool {
	return dsn != "" && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:")
}

// SQLSource reads schema and rows through a Dialect's queries.
type SQLSource struct {
	db      *sql.DB
	d       dialect.Dialect
	schema  string
	columns map[string][]string // column names by table, filled by Columns
}

// NewSQLSource wraps an already opened handle. Close closes db.
func NewSQLSource(db *sql.DB, d dialect.Dialect, schemaName string) *SQLSource {
	return &SQLSource{db: db, d: d, schema: schemaName, columns: make(map[string][]string)}
}

func (s *SQLSource) Tables() ([]string, error) {
	query, args := s.d.GetTablesQuery(s.schema)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return names, nil
}

func (s *SQLSource) Columns(table string) ([]schema.ColumnInfo, error) {
	query, args := s.d.GetColumnsQuery(s.schema, table)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var cols []schema.ColumnInfo
	for rows.Next() {
		var name, dType sql.NullString
		if err := rows.Scan(&name, &dType); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", table, err)
		}
		if !name.Valid {
			continue // Skip invalid rows
		}
		cols = append(cols, schema.ColumnInfo{
			Name:         name.String,
			DeclaredType: s.d.NormalizeType(dType.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	s.columns[table] = names
	return cols, nil
}

// Rows selects the columns reported by Columns, in that order. Tables not seen by
// Columns yet are introspected first.
func (s *SQLSource) Rows(table string) (RowIterator, error) {
	names, ok := s.columns[table]
	if !ok {
		if _, err := s.Columns(table); err != nil {
			return nil, fmt.Errorf("failed to query rows of %s: %w", table, err)
		}
		names = s.columns[table]
	}

	rows, err := s.db.Query(s.d.SelectAllQuery(table, names))
	if err != nil {
		return nil, fmt.Errorf("failed to query rows of %s: %w", table, err)
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read result columns of %s: %w", table, err)
	}
	return &sqlRows{rows: rows, columns: cols}, nil
}

func (s *SQLSource) Close() error {
	return s.db.Close()
}

type sqlRows struct {
	rows    *sql.Rows
	columns []string
	current Row
	err     error
}

func (r *sqlRows) Next() bool {
	if r.err != nil || !r.rows.Next() {
		return false
	}
	values := make([]any, len(r.columns))
	dest := make([]any, len(r.columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := r.rows.Scan(dest...); err != nil {
		r.err = fmt.Errorf("failed to scan row: %w", err)
		return false
	}
	r.current = NewRow(r.columns, values)
	return true
}

func (r *sqlRows) Row() Row { return r.current }

func (r *sqlRows) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.rows.Err()
}

func (r *sqlRows) Close() error { return r.rows.Close() }
