package engine

import (
	"fmt"
	"strconv"

	"db-export/internal/document"
	"db-export/internal/exportconfig"
	"db-export/internal/schema"
	"db-export/internal/source"
)

// RowReader streams a table's rows.
type RowReader interface {
	Rows(table string) (source.RowIterator, error)
}

type OutcomeStatus int

const (
	Included OutcomeStatus = iota
	Dropped
)

func (s OutcomeStatus) String() string {
	if s == Dropped {
		return "dropped"
	}
	return "included"
}

// Outcome records what happened to one source row.
type Outcome struct {
	Row    int
	Key    string // keyed export only
	Status OutcomeStatus
	Reason error // set when Dropped
}

// TableExport is one table's contribution to a document.
type TableExport struct {
	Table    string
	Skipped  bool   // table excluded by name
	KeyField string // non-empty for keyed export
	Records  []*document.Object
	Keys     []string // parallel to Records for keyed export
	Outcomes []Outcome
}

func (te *TableExport) Keyed() bool { return te.KeyField != "" }

func (te *TableExport) Included() int { return len(te.Records) }

func (te *TableExport) Dropped() []Outcome {
	var out []Outcome
	for _, o := range te.Outcomes {
		if o.Status == Dropped {
			out = append(out, o)
		}
	}
	return out
}

// Value returns the table as an array of records, or as an object keyed by the
// synthesized keys.
func (te *TableExport) Value() document.Value {
	if !te.Keyed() {
		items := make([]document.Value, len(te.Records))
		for i, r := range te.Records {
			items[i] = document.ObjectValue(r)
		}
		return document.Array(items...)
	}
	obj := document.NewObject()
	for i, r := range te.Records {
		obj.Set(te.Keys[i], document.ObjectValue(r))
	}
	return document.ObjectValue(obj)
}

// TableExporter exports one table. It reads its schema once and re-queries rows on
// every export.
type TableExporter struct {
	table  *schema.Table
	fields []schema.Field
	rows   RowReader
}

func NewTableExporter(t *schema.Table, rows RowReader) *TableExporter {
	return &TableExporter{table: t, fields: t.Fields(), rows: rows}
}

func (e *TableExporter) Name() string { return e.table.Name }

func (e *TableExporter) Table() *schema.Table { return e.table }

// KeyField returns the configured primary key of the table when it names an existing
// column.
func (e *TableExporter) KeyField(cfg exportconfig.Config) (string, bool) {
	key, ok := cfg.PrimaryKey(e.table.Name)
	if !ok || !e.table.HasField(key) {
		return "", false
	}
	return key, true
}

// Export builds the table's records for format. JSON uses keyed export when the table
// has a valid primary key; XML is always an ordered list.
func (e *TableExporter) Export(cfg exportconfig.Config, format Format) (*TableExport, error) {
	if cfg.ExcludesTable(e.table.Name) {
		return &TableExport{Table: e.table.Name, Skipped: true}, nil
	}
	if format == FormatJSON {
		if key, ok := e.KeyField(cfg); ok {
			return e.ExportKeyed(cfg, key)
		}
	}
	return e.ExportArray(cfg)
}

// ExportArray collects every row in source order. Rows that fail coercion are dropped.
func (e *TableExporter) ExportArray(cfg exportconfig.Config) (*TableExport, error) {
	te := &TableExport{Table: e.table.Name}
	if cfg.ExcludesTable(e.table.Name) {
		te.Skipped = true
		return te, nil
	}

	err := e.eachRow(func(index int, row source.Row) {
		rec, err := e.buildRecord(row, cfg, "")
		if err != nil {
			te.Outcomes = append(te.Outcomes, Outcome{Row: index, Status: Dropped, Reason: err})
			return
		}
		te.Records = append(te.Records, rec)
		te.Outcomes = append(te.Outcomes, Outcome{Row: index, Status: Included})
	})
	if err != nil {
		return nil, err
	}
	return te, nil
}

// ExportKeyed collects rows under the string value of key. Empty values become
// "undef_<row>" and values already used get "_dupe_<row>" appended. The row index
// advances for every row, dropped or not. A suffixed key that is still taken replaces
// the earlier record in place, and that earlier row is reported as dropped.
func (e *TableExporter) ExportKeyed(cfg exportconfig.Config, key string) (*TableExport, error) {
	te := &TableExport{Table: e.table.Name, KeyField: key}
	if cfg.ExcludesTable(e.table.Name) {
		te.Skipped = true
		te.KeyField = ""
		return te, nil
	}

	// position of each key in Records, and of its row in Outcomes
	used := make(map[string]int)
	outcomeOf := make(map[string]int)
	err := e.eachRow(func(index int, row source.Row) {
		rec, err := e.buildRecord(row, cfg, key)
		if err == nil {
			var name string
			name, err = recordKey(row, key, index, used)
			if err == nil {
				if pos, taken := used[name]; taken {
					prev := outcomeOf[name]
					te.Outcomes[prev].Status = Dropped
					te.Outcomes[prev].Reason = fmt.Errorf("%w: key %s reused by row %d", ErrRecord, name, index)
					te.Records[pos] = rec
				} else {
					used[name] = len(te.Records)
					te.Records = append(te.Records, rec)
					te.Keys = append(te.Keys, name)
				}
				outcomeOf[name] = len(te.Outcomes)
				te.Outcomes = append(te.Outcomes, Outcome{Row: index, Key: name, Status: Included})
				return
			}
		}
		te.Outcomes = append(te.Outcomes, Outcome{Row: index, Status: Dropped, Reason: err})
	})
	if err != nil {
		return nil, err
	}
	return te, nil
}

func recordKey(row source.Row, key string, index int, used map[string]int) (string, error) {
	raw, _ := row.Get(key)
	name, err := toString(raw)
	if err != nil {
		return "", fmt.Errorf("%w: key field %s: %w", ErrRecord, key, err)
	}
	if name == "" {
		name = "undef_" + strconv.Itoa(index)
	}
	if _, taken := used[name]; taken {
		name += "_dupe_" + strconv.Itoa(index)
	}
	return name, nil
}

// buildRecord coerces every field of row that is not excluded and not skip.
func (e *TableExporter) buildRecord(row source.Row, cfg exportconfig.Config, skip string) (*document.Object, error) {
	rec := document.NewObject()
	for _, f := range e.fields {
		if f.Name == skip || cfg.ExcludesField(e.table.Name, f.Name) {
			continue
		}
		raw, _ := row.Get(f.Name)
		v, err := coerce(f.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s (%s): %w", ErrRecord, f.Name, f.Type, err)
		}
		rec.Set(f.Name, v)
	}
	return rec, nil
}

func (e *TableExporter) eachRow(fn func(index int, row source.Row)) error {
	it, err := e.rows.Rows(e.table.Name)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTableQuery, e.table.Name, err)
	}
	defer it.Close()

	index := 0
	for it.Next() {
		fn(index, it.Row())
		index++
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTableQuery, e.table.Name, err)
	}
	return nil
}
