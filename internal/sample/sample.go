package sample

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"db-export/internal/dialect"
	"db-export/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
)

var ErrExists = errors.New("sample database already exists")

// Tables is the layout of the demo database.
var Tables = []Table{
	{Name: "Users", Columns: []schema.ColumnInfo{
		{Name: "id", DeclaredType: "INTEGER"},
		{Name: "name", DeclaredType: "TEXT"},
		{Name: "email", DeclaredType: "TEXT"},
		{Name: "score", DeclaredType: "REAL"},
		{Name: "active", DeclaredType: "INTEGER"},
		{Name: "joined", DeclaredType: "DATETIME"},
	}},
	{Name: "Products", Columns: []schema.ColumnInfo{
		{Name: "sku", DeclaredType: "TEXT"},
		{Name: "name", DeclaredType: "TEXT"},
		{Name: "price", DeclaredType: "REAL"},
		{Name: "stock", DeclaredType: "INTEGER"},
	}},
	{Name: "Orders", Columns: []schema.ColumnInfo{
		{Name: "id", DeclaredType: "INTEGER"},
		{Name: "user_id", DeclaredType: "INTEGER"},
		{Name: "sku", DeclaredType: "TEXT"},
		{Name: "quantity", DeclaredType: "INTEGER"},
		{Name: "total", DeclaredType: "FLOAT"},
		{Name: "note", DeclaredType: "TEXT"},
	}},
}

type Table struct {
	Name    string
	Columns []schema.ColumnInfo
}

// Options controls generation. The same Seed always produces the same data.
type Options struct {
	Rows int
	Seed int64
}

// Summary reports how many rows went into each table.
type Summary struct {
	Path string
	Rows map[string]int
}

// Generator fills the demo tables with fake values.
type Generator struct {
	faker *gofakeit.Faker
	rows  int
	base  time.Time
}

func NewGenerator(opts Options) *Generator {
	if opts.Rows <= 0 {
		opts.Rows = 10
	}
	return &Generator{
		faker: gofakeit.New(opts.Seed),
		rows:  opts.Rows,
		base:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Create writes a new SQLite database at path. An existing file is never overwritten.
func Create(path string, opts Options) (*Summary, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	g := NewGenerator(opts)
	d := dialect.GetDialect("sqlite")
	summary := &Summary{Path: path, Rows: make(map[string]int)}

	for _, t := range Tables {
		n, err := g.fill(db, d, t)
		if err != nil {
			// Leave no partial file behind.
			db.Close()
			os.Remove(path)
			return nil, fmt.Errorf("failed to fill table %s: %w", t.Name, err)
		}
		summary.Rows[t.Name] = n
	}
	if err := db.Close(); err != nil {
		return nil, fmt.Errorf("failed to close db: %w", err)
	}
	return summary, nil
}

func (g *Generator) fill(db *sql.DB, d dialect.Dialect, t Table) (int, error) {
	cols := make([]string, len(t.Columns))
	defs := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = d.QuoteIdent(c.Name)
		defs[i] = cols[i] + " " + c.DeclaredType
		marks[i] = d.Placeholder(i)
	}

	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", d.QuoteIdent(t.Name), strings.Join(defs, ", "))); err != nil {
		return 0, err
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdent(t.Name), strings.Join(cols, ", "), strings.Join(marks, ", "))
	stmt, err := tx.Prepare(insert)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for row := 0; row < g.rows; row++ {
		if _, err := stmt.Exec(g.Row(t, row)...); err != nil {
			return row, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return g.rows, nil
}

// Row generates the values of one row of t, in column order.
func (g *Generator) Row(t Table, row int) []any {
	values := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		values[i] = g.Value(c, row)
	}
	return values
}

// Value picks a plausible value for a column from its name first and its declared type
// second.
func (g *Generator) Value(col schema.ColumnInfo, row int) any {
	name := strings.ToLower(col.Name)
	dataType := strings.ToLower(col.DeclaredType)
	f := g.faker

	switch {
	case name == "id":
		return row + 1
	case strings.HasSuffix(name, "_id"):
		return f.Number(1, g.rows)
	case name == "sku":
		return fmt.Sprintf("SKU-%04d", f.Number(1, g.rows))
	case strings.Contains(name, "email"):
		return f.Email()
	case strings.Contains(name, "name"):
		return f.Name()
	case strings.Contains(name, "active"):
		if f.Bool() {
			return 1
		}
		return 0
	case strings.Contains(name, "note"):
		// Roughly a third of notes are left empty.
		if f.Number(0, 2) == 0 {
			return nil
		}
		return f.Sentence(6)
	case strings.Contains(name, "price"), strings.Contains(name, "total"):
		return f.Price(0.99, 99.99)
	case strings.Contains(name, "score"):
		return float64(f.Number(0, 400)) / 4
	case strings.Contains(name, "quantity"), strings.Contains(name, "stock"):
		return f.Number(1, 50)
	}

	switch {
	case strings.Contains(dataType, "date"), strings.Contains(dataType, "time"):
		return f.DateRange(g.base, g.base.AddDate(5, 0, 0)).Format("2006-01-02 15:04:05")
	case strings.Contains(dataType, "int"):
		return f.Number(1, 50000)
	case strings.Contains(dataType, "real"), strings.Contains(dataType, "float"):
		return f.Float64Range(0, 1000)
	default:
		return f.Word()
	}
}
