package schema_test

import (
	"errors"
	"testing"

	"db-export/internal/schema"
)

type fakeCatalog struct {
	tables  []string
	columns map[string][]schema.ColumnInfo
	listErr error
	failOn  string
}

func (f *fakeCatalog) Tables() ([]string, error) {
	return f.tables, f.listErr
}

func (f *fakeCatalog) Columns(table string) ([]schema.ColumnInfo, error) {
	if table == f.failOn {
		return nil, errors.New("no such table")
	}
	return f.columns[table], nil
}

func TestClassifyType(t *testing.T) {
	cases := map[string]schema.FieldType{
		"INTEGER": schema.FieldInteger,
		"NUMERIC": schema.FieldInteger,
		"FLOAT":   schema.FieldFloat,
		"REAL":    schema.FieldFloat,
		"TEXT":    schema.FieldString,
		"integer": schema.FieldString, // case-sensitive
		"real":    schema.FieldString,
		"":        schema.FieldString,
		"BLOB":    schema.FieldString,
	}
	for declared, want := range cases {
		if got := schema.ClassifyType(declared); got != want {
			t.Errorf("ClassifyType(%q) = %s, want %s", declared, got, want)
		}
	}
}

func TestAnalyze_SortsTablesAndClassifiesFields(t *testing.T) {
	cat := &fakeCatalog{
		tables: []string{"Users", "Orders", "Accounts"},
		columns: map[string][]schema.ColumnInfo{
			"Users": {
				{Name: "id", DeclaredType: "INTEGER"},
				{Name: "name", DeclaredType: "TEXT"},
				{Name: "score", DeclaredType: "REAL"},
			},
			"Orders":   {{Name: "total", DeclaredType: "NUMERIC"}},
			"Accounts": nil,
		},
	}

	tables, err := schema.Analyze(cat)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(tables) != 3 {
		t.Fatalf("Expected 3 tables, got %d", len(tables))
	}
	order := []string{"Accounts", "Orders", "Users"}
	for i, name := range order {
		if tables[i].Name != name {
			t.Errorf("Expected table %d to be %s, got %s", i, name, tables[i].Name)
		}
	}

	users := tables[2]
	fields := users.Fields()
	if len(fields) != 3 || fields[0].Name != "id" || fields[1].Name != "name" || fields[2].Name != "score" {
		t.Fatalf("Unexpected field order: %+v", fields)
	}
	if f, _ := users.Field("id"); f.Type != schema.FieldInteger {
		t.Errorf("Expected id to be Integer, got %s", f.Type)
	}
	if f, _ := users.Field("score"); f.Type != schema.FieldFloat {
		t.Errorf("Expected score to be Float, got %s", f.Type)
	}
	if users.HasField("missing") {
		t.Error("HasField reported a column that does not exist")
	}
	if tables[0].Len() != 0 {
		t.Errorf("Expected Accounts to have no fields, got %d", tables[0].Len())
	}
}

func TestAnalyze_ColumnFailureIsFatal(t *testing.T) {
	cat := &fakeCatalog{
		tables:  []string{"a", "b"},
		columns: map[string][]schema.ColumnInfo{"a": {{Name: "x", DeclaredType: "TEXT"}}},
		failOn:  "b",
	}

	tables, err := schema.Analyze(cat)
	if !errors.Is(err, schema.ErrSchema) {
		t.Fatalf("Expected ErrSchema, got %v", err)
	}
	if tables != nil {
		t.Errorf("Expected no tables on failure, got %d", len(tables))
	}
}

func TestAnalyze_ListFailureIsFatal(t *testing.T) {
	cat := &fakeCatalog{listErr: errors.New("connection reset")}
	if _, err := schema.Analyze(cat); !errors.Is(err, schema.ErrSchema) {
		t.Fatalf("Expected ErrSchema, got %v", err)
	}
}

func TestNewTable_DuplicateColumnKeepsFirst(t *testing.T) {
	tbl := schema.NewTable("t", []schema.ColumnInfo{
		{Name: "a", DeclaredType: "INTEGER"},
		{Name: "a", DeclaredType: "TEXT"},
	})
	if tbl.Len() != 1 {
		t.Fatalf("Expected 1 field, got %d", tbl.Len())
	}
	if f, _ := tbl.Field("a"); f.Type != schema.FieldInteger {
		t.Errorf("Expected first declaration to win, got %s", f.Type)
	}
}
