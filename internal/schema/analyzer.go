package schema

import (
	"errors"
	"fmt"
	"sort"
)

// ErrSchema marks a failure to read table or column metadata.
var ErrSchema = errors.New("schema error")

// Catalog is the metadata half of a database source.
type Catalog interface {
	Tables() ([]string, error)
	Columns(table string) ([]ColumnInfo, error)
}

// ---------------------------------------------------------------------
// Schema Analysis
// ---------------------------------------------------------------------

// Analyze reads every table of the catalog and returns them sorted by name.
// Any metadata failure aborts the whole analysis.
func Analyze(c Catalog) ([]*Table, error) {
	// --- Step 1: Fetch Tables ---
	names, err := c.Tables()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list tables: %w", ErrSchema, err)
	}

	seen := make(map[string]bool, len(names))
	unique := names[:0:0]
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		unique = append(unique, n)
	}
	sort.Strings(unique)

	// --- Step 2: Fetch Columns ---
	tables := make([]*Table, 0, len(unique))
	for _, name := range unique {
		cols, err := c.Columns(name)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read columns of table %s: %w", ErrSchema, name, err)
		}
		tables = append(tables, NewTable(name, cols))
	}

	return tables, nil
}
