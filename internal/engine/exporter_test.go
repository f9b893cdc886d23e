package engine_test

import (
	"errors"
	"math"
	"testing"

	"db-export/internal/engine"
	"db-export/internal/exportconfig"
	"db-export/internal/schema"
	"db-export/internal/source"

	"github.com/stretchr/testify/require"
)

// fakeDB is an in-memory source. Tables listed in failRows cannot be queried and
// tables in failMid break after their first row.
type fakeDB struct {
	columns  map[string][]schema.ColumnInfo
	rows     map[string][][]any
	failRows map[string]bool
	failMid  map[string]bool
	closed   bool
}

func (f *fakeDB) Tables() ([]string, error) {
	var names []string
	for name := range f.columns {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeDB) Columns(table string) ([]schema.ColumnInfo, error) {
	return f.columns[table], nil
}

func (f *fakeDB) Rows(table string) (source.RowIterator, error) {
	if f.failRows[table] {
		return nil, errors.New("no such table")
	}
	names := make([]string, len(f.columns[table]))
	for i, c := range f.columns[table] {
		names[i] = c.Name
	}
	return &fakeIter{names: names, rows: f.rows[table], failMid: f.failMid[table], pos: -1}, nil
}

func (f *fakeDB) Close() error {
	f.closed = true
	return nil
}

func (f *fakeDB) Open() (source.Source, error) { return f, nil }

type fakeIter struct {
	names   []string
	rows    [][]any
	failMid bool
	pos     int
	err     error
}

func (it *fakeIter) Next() bool {
	if it.failMid && it.pos == 0 {
		it.err = errors.New("disk I/O error")
		return false
	}
	it.pos++
	return it.pos < len(it.rows)
}

func (it *fakeIter) Row() source.Row { return source.NewRow(it.names, it.rows[it.pos]) }
func (it *fakeIter) Err() error      { return it.err }
func (it *fakeIter) Close() error    { return nil }

func usersDB() *fakeDB {
	return &fakeDB{
		columns: map[string][]schema.ColumnInfo{
			"Users": {
				{Name: "id", DeclaredType: "INTEGER"},
				{Name: "name", DeclaredType: "TEXT"},
				{Name: "score", DeclaredType: "REAL"},
			},
		},
		rows: map[string][][]any{
			"Users": {
				{int64(1), "Alice", 1.5},
				{int64(2), "Bob", 2.75},
			},
		},
	}
}

func exporterFor(t *testing.T, db *fakeDB, table string) *engine.TableExporter {
	t.Helper()
	cols, err := db.Columns(table)
	require.NoError(t, err)
	return engine.NewTableExporter(schema.NewTable(table, cols), db)
}

func TestExportArray_AllFieldsInColumnOrder(t *testing.T) {
	e := exporterFor(t, usersDB(), "Users")

	te, err := e.ExportArray(exportconfig.Config{})
	require.NoError(t, err)
	require.False(t, te.Keyed())
	require.Len(t, te.Records, 2)
	require.Equal(t, []string{"id", "name", "score"}, te.Records[0].Keys())

	v, _ := te.Records[1].Get("score")
	require.Equal(t, 2.75, v.AsFloat())
	require.Empty(t, te.Dropped())
}

func TestExport_TableExcluded(t *testing.T) {
	e := exporterFor(t, usersDB(), "Users")
	cfg := exportconfig.New([]string{"Users"}, map[string]string{"Users": "id"})

	for _, f := range []engine.Format{engine.FormatXML, engine.FormatJSON} {
		te, err := e.Export(cfg, f)
		require.NoError(t, err)
		require.True(t, te.Skipped)
		require.Empty(t, te.Records)
	}
}

func TestExport_FieldExcludedOnlyAffectsThatField(t *testing.T) {
	e := exporterFor(t, usersDB(), "Users")
	cfg := exportconfig.New([]string{"Users.score", "Other.name", "Users.nope"}, nil)

	te, err := e.Export(cfg, engine.FormatJSON)
	require.NoError(t, err)
	for _, rec := range te.Records {
		require.Equal(t, []string{"id", "name"}, rec.Keys())
	}
}

func TestExport_KeyedUsesPrimaryKeyAndDropsIt(t *testing.T) {
	e := exporterFor(t, usersDB(), "Users")
	cfg := exportconfig.New(nil, map[string]string{"Users": "id"})

	te, err := e.Export(cfg, engine.FormatJSON)
	require.NoError(t, err)
	require.Equal(t, "id", te.KeyField)
	require.Equal(t, []string{"1", "2"}, te.Keys)
	require.Equal(t, []string{"name", "score"}, te.Records[0].Keys())

	// XML never keys.
	te, err = e.Export(cfg, engine.FormatXML)
	require.NoError(t, err)
	require.False(t, te.Keyed())
	require.Equal(t, []string{"id", "name", "score"}, te.Records[0].Keys())
}

func TestExport_UnknownKeyFallsBackToArray(t *testing.T) {
	e := exporterFor(t, usersDB(), "Users")
	cfg := exportconfig.New(nil, map[string]string{"Users": "email"})

	te, err := e.Export(cfg, engine.FormatJSON)
	require.NoError(t, err)
	require.False(t, te.Keyed())
	require.Len(t, te.Records, 2)
}

func TestExportKeyed_UndefAndDupeKeys(t *testing.T) {
	db := &fakeDB{
		columns: map[string][]schema.ColumnInfo{
			"Items": {{Name: "sku", DeclaredType: "TEXT"}, {Name: "qty", DeclaredType: "INTEGER"}},
		},
		rows: map[string][][]any{
			"Items": {
				{"a", int64(1)},
				{"", int64(2)},
				{"a", int64(3)},
				{nil, int64(4)},
				{"b", "oops"},
				{"b", int64(6)},
				{"undef_1", nil},
			},
		},
	}
	e := exporterFor(t, db, "Items")

	// Row 4 fails coercion of qty and takes no key; row 6 collides with a synthesized key.
	te, err := e.ExportKeyed(exportconfig.Config{}, "sku")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "undef_1", "a_dupe_2", "undef_3", "b", "undef_1_dupe_6"}, te.Keys)

	seen := map[string]bool{}
	for _, k := range te.Keys {
		require.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
	}

	dropped := te.Dropped()
	require.Len(t, dropped, 1)
	require.Equal(t, 4, dropped[0].Row)
	require.ErrorIs(t, dropped[0].Reason, engine.ErrRecord)
	require.Len(t, te.Outcomes, 7)

	// NULL in a non-key field is the empty string.
	last, _ := te.Records[5].Get("qty")
	require.Equal(t, "", last.AsString())
}

func TestExportKeyed_SecondCollisionReplacesEarlierRecord(t *testing.T) {
	db := &fakeDB{
		columns: map[string][]schema.ColumnInfo{
			"Items": {{Name: "sku", DeclaredType: "TEXT"}, {Name: "qty", DeclaredType: "INTEGER"}},
		},
		rows: map[string][][]any{
			"Items": {
				{"x", int64(1)},
				{"x_dupe_2", int64(2)},
				{"x", int64(3)},
			},
		},
	}
	e := exporterFor(t, db, "Items")

	te, err := e.ExportKeyed(exportconfig.Config{}, "sku")
	require.NoError(t, err)
	require.Equal(t, []string{"x", "x_dupe_2"}, te.Keys)
	require.Equal(t, 2, te.Included())
	require.Equal(t, te.Value().AsObject().Len(), te.Included())

	qty, _ := te.Records[1].Get("qty")
	require.Equal(t, int64(3), qty.AsInteger())

	dropped := te.Dropped()
	require.Len(t, dropped, 1)
	require.Equal(t, 1, dropped[0].Row)
	require.ErrorIs(t, dropped[0].Reason, engine.ErrRecord)
}

func TestExportArray_DropsBadRecordAndContinues(t *testing.T) {
	db := usersDB()
	db.rows["Users"] = [][]any{
		{int64(1), "Alice", 1.5},
		{int64(2), "Bob", math.Inf(1)},
		{"three", "Carol", 0.5},
		{int64(4), "Dan", 4.0},
	}
	e := exporterFor(t, db, "Users")

	te, err := e.ExportArray(exportconfig.Config{})
	require.NoError(t, err)
	require.Len(t, te.Records, 2)

	dropped := te.Dropped()
	require.Len(t, dropped, 2)
	require.Equal(t, 1, dropped[0].Row)
	require.Equal(t, 2, dropped[1].Row)

	// An excluded bad field does not drop the row.
	te, err = e.ExportArray(exportconfig.New([]string{"Users.score", "Users.id"}, nil))
	require.NoError(t, err)
	require.Len(t, te.Records, 4)
}

func TestExport_RowQueryFailure(t *testing.T) {
	db := usersDB()
	db.failRows = map[string]bool{"Users": true}
	e := exporterFor(t, db, "Users")

	_, err := e.Export(exportconfig.Config{}, engine.FormatJSON)
	require.ErrorIs(t, err, engine.ErrTableQuery)

	db.failRows = nil
	db.failMid = map[string]bool{"Users": true}
	_, err = e.Export(exportconfig.Config{}, engine.FormatXML)
	require.ErrorIs(t, err, engine.ErrTableQuery)
}

func TestTableExport_Value(t *testing.T) {
	e := exporterFor(t, usersDB(), "Users")

	te, err := e.ExportKeyed(exportconfig.Config{}, "name")
	require.NoError(t, err)
	v := te.Value()
	require.Equal(t, []string{"Alice", "Bob"}, v.AsObject().Keys())

	te, err = e.ExportArray(exportconfig.Config{})
	require.NoError(t, err)
	require.Len(t, te.Value().Items(), 2)
}
