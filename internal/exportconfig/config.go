// Package exportconfig holds the exclusion and keying rules applied to an export and
// reads them from the JSON configuration file.
package exportconfig

import "strings"

// Config is an immutable set of export rules. The zero value excludes nothing and keys
// nothing.
type Config struct {
	excludes map[string]struct{}
	order    []string
	keys     map[string]string
}

// New builds a Config from exclude entries ("table" or "table.field") and a table to
// primary-key field map. The inputs are copied.
func New(excludes []string, keys map[string]string) Config {
	c := Config{}
	for _, e := range excludes {
		c = c.withExclude(e)
	}
	for table, field := range keys {
		c = c.withKey(table, field)
	}
	return c
}

// Merge returns the union of both exclude sets with override's keys laid over base's.
// Neither argument is modified.
func Merge(base, override Config) Config {
	merged := Config{}
	for _, e := range base.order {
		merged = merged.withExclude(e)
	}
	for _, e := range override.order {
		merged = merged.withExclude(e)
	}
	for table, field := range base.keys {
		merged = merged.withKey(table, field)
	}
	for table, field := range override.keys {
		merged = merged.withKey(table, field)
	}
	return merged
}

// withExclude mutates c in place; only used while c is under construction.
func (c Config) withExclude(entry string) Config {
	if c.excludes == nil {
		c.excludes = make(map[string]struct{})
	}
	if _, ok := c.excludes[entry]; ok {
		return c
	}
	c.excludes[entry] = struct{}{}
	c.order = append(c.order, entry)
	return c
}

func (c Config) withKey(table, field string) Config {
	if c.keys == nil {
		c.keys = make(map[string]string)
	}
	c.keys[table] = field
	return c
}

// ExcludesTable reports whether the whole table is left out of the export.
func (c Config) ExcludesTable(table string) bool {
	_, ok := c.excludes[table]
	return ok
}

// ExcludesField reports whether "table.field" is an exclude entry.
func (c Config) ExcludesField(table, field string) bool {
	if len(c.excludes) == 0 {
		return false
	}
	_, ok := c.excludes[table+"."+field]
	return ok
}

// PrimaryKey returns the configured keying field of a table. The field may not exist in
// the table; callers check against the schema.
func (c Config) PrimaryKey(table string) (string, bool) {
	field, ok := c.keys[table]
	return field, ok
}

// Excludes returns the exclude entries in the order they were first added.
func (c Config) Excludes() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c Config) Keys() map[string]string {
	out := make(map[string]string, len(c.keys))
	for k, v := range c.keys {
		out[k] = v
	}
	return out
}

func (c Config) IsEmpty() bool {
	return len(c.order) == 0 && len(c.keys) == 0
}

func (c Config) String() string {
	var b strings.Builder
	b.WriteString("excludes=[")
	b.WriteString(strings.Join(c.order, ","))
	b.WriteString("] keys=")
	b.WriteString(formatKeys(c.keys))
	return b.String()
}
