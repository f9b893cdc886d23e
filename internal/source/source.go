// Package source is the database-access side of an export: table listing, column
// metadata and forward-only row iteration.
package source

import (
	"db-export/internal/schema"
)

// Source is an open database. It is owned by a single caller and is not safe for
// concurrent use.
type Source interface {
	schema.Catalog
	Rows(table string) (RowIterator, error)
	Close() error
}

// Opener connects to a database and returns an open Source.
type Opener interface {
	Open() (Source, error)
}

// RowIterator walks a table's rows once, in source order.
type RowIterator interface {
	Next() bool
	Row() Row
	Err() error
	Close() error
}

// Row holds one row's raw values keyed by column name. Values are whatever the driver
// produced: nil, int64, float64, bool, string, []byte or time.Time.
type Row struct {
	columns []string
	index   map[string]int
	values  []any
}

// NewRow builds a Row from parallel column and value slices.
func NewRow(columns []string, values []any) Row {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := index[c]; !ok {
			index[c] = i
		}
	}
	return Row{columns: columns, index: index, values: values}
}

func (r Row) Get(name string) (any, bool) {
	i, ok := r.index[name]
	if !ok || i >= len(r.values) {
		return nil, false
	}
	return r.values[i], true
}

func (r Row) Columns() []string { return r.columns }
