package schema

// FieldType is the semantic category inferred from a column's declared type.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInteger
	FieldFloat
)

func (t FieldType) String() string {
	switch t {
	case FieldInteger:
		return "Integer"
	case FieldFloat:
		return "Float"
	default:
		return "String"
	}
}

// ClassifyType maps a declared column type to a FieldType.
// The match is case-sensitive: "integer" is a String column.
func ClassifyType(declared string) FieldType {
	switch declared {
	case "INTEGER", "NUMERIC":
		return FieldInteger
	case "FLOAT", "REAL":
		return FieldFloat
	default:
		return FieldString
	}
}

// ColumnInfo is one row of a table's column metadata as reported by the source.
type ColumnInfo struct {
	Name         string
	DeclaredType string
}

type Field struct {
	Name         string
	DeclaredType string
	Type         FieldType
}

// Table is populated once at introspection time and must not be modified afterwards.
type Table struct {
	Name   string
	fields []Field
	index  map[string]int
}

// NewTable classifies columns in the order given. Repeated column names keep the first
// occurrence.
func NewTable(name string, columns []ColumnInfo) *Table {
	t := &Table{Name: name, index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if _, dup := t.index[c.Name]; dup {
			continue
		}
		t.index[c.Name] = len(t.fields)
		t.fields = append(t.fields, Field{
			Name:         c.Name,
			DeclaredType: c.DeclaredType,
			Type:         ClassifyType(c.DeclaredType),
		})
	}
	return t
}

// Fields returns a copy of the table's fields in column order.
func (t *Table) Fields() []Field {
	out := make([]Field, len(t.fields))
	copy(out, t.fields)
	return out
}

func (t *Table) Field(name string) (Field, bool) {
	i, ok := t.index[name]
	if !ok {
		return Field{}, false
	}
	return t.fields[i], true
}

func (t *Table) HasField(name string) bool {
	_, ok := t.index[name]
	return ok
}

func (t *Table) Len() int { return len(t.fields) }
