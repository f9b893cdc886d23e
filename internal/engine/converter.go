package engine

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"db-export/internal/document"
	"db-export/internal/exportconfig"
	"db-export/internal/logger"
	"db-export/internal/schema"
	"db-export/internal/source"
)

type Format string

const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "xml" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatXML:
		return FormatXML, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Section is the configuration file section holding this format's overrides.
func (f Format) Section() string {
	return string(f)
}

type State int

const (
	StateIdle State = iota
	StateOpen
	StateExporting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateExporting:
		return "exporting"
	case StateClosed:
		return "closed"
	default:
		return "idle"
	}
}

// Target is one requested output file.
type Target struct {
	Format Format
	Path   string
	Config exportconfig.Config
}

// Result summarizes one format's export.
type Result struct {
	Format      Format
	Path        string
	Tables      int // tables written
	Skipped     int // tables excluded by config
	Failed      int // tables whose rows could not be read
	Records     int
	Dropped     int
	Diagnostics []Diagnostic
	Err         error // set when the output could not be produced
}

// Converter drives a whole export session: one open database, its schema read once,
// and any number of exports against it.
type Converter struct {
	log       *logger.Logger
	state     State
	src       source.Source
	exporters []*TableExporter

	// OnTable, when set, is called before each table of each export.
	OnTable func(format Format, table string)
}

func NewConverter(log *logger.Logger) *Converter {
	if log == nil {
		log = logger.Discard()
	}
	return &Converter{log: log}
}

func (c *Converter) State() State { return c.state }

// Tables returns the schema read by Open, sorted by name.
func (c *Converter) Tables() []*schema.Table {
	tables := make([]*schema.Table, len(c.exporters))
	for i, e := range c.exporters {
		tables[i] = e.Table()
	}
	return tables
}

// Open connects through o and reads the schema. Only one database may be open at a
// time; on failure the converter keeps its previous state.
func (c *Converter) Open(o source.Opener) error {
	if c.state == StateOpen || c.state == StateExporting {
		c.log.Warn("Attempting to start another export while an existing one is in progress. Skipping...")
		return ErrAlreadyOpen
	}

	c.log.Info("Database load commencing")
	src, err := o.Open()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInitialization, err)
	}

	tables, err := schema.Analyze(src)
	if err != nil {
		src.Close()
		return fmt.Errorf("%w: %w", ErrInitialization, err)
	}

	exporters := make([]*TableExporter, len(tables))
	for i, t := range tables {
		c.log.WithTable(t.Name).Debugf("Processing schema for table '%s' (%d fields)", t.Name, t.Len())
		exporters[i] = NewTableExporter(t, src)
	}

	c.src = src
	c.exporters = exporters
	c.state = StateOpen
	c.log.Infof("Database load complete (%d tables)", len(tables))
	return nil
}

// Close releases the database. Closing a converter that is not open does nothing.
func (c *Converter) Close() error {
	if c.state != StateOpen {
		return nil
	}
	err := c.src.Close()
	c.src = nil
	c.exporters = nil
	c.state = StateClosed
	c.log.Info("Database closed")
	return err
}

// ExportAll runs every target in order. A failing target is reported in its Result and
// does not stop the ones after it.
func (c *Converter) ExportAll(targets []Target) ([]*Result, error) {
	if c.state != StateOpen {
		return nil, ErrNotOpen
	}
	results := make([]*Result, 0, len(targets))
	for _, t := range targets {
		r, _ := c.Export(t)
		results = append(results, r)
	}
	return results, nil
}

// Export writes one target file. The returned error is also stored in Result.Err.
func (c *Converter) Export(t Target) (*Result, error) {
	if c.state != StateOpen {
		c.log.Warnf("Trying to export to file '%s' without starting up export. Aborting...", t.Path)
		return nil, ErrNotOpen
	}

	c.log.Infof("%s export to '%s' commencing", strings.ToUpper(string(t.Format)), t.Path)

	var buf bytes.Buffer
	r, err := c.Render(&buf, t.Format, t.Config)
	if r == nil {
		r = &Result{Format: t.Format}
	}
	r.Path = t.Path
	if err == nil {
		if werr := os.WriteFile(t.Path, buf.Bytes(), 0o644); werr != nil {
			err = fmt.Errorf("%w: I/O error encountered trying to output database to file '%s': %w", ErrOutput, t.Path, werr)
		}
	}
	if err != nil {
		r.Err = err
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: KindOutput, Format: t.Format, Row: -1, Err: err})
		c.log.Errorf("Failed to export data to file %s: %v", t.Path, err)
		return r, err
	}

	c.log.Infof("%s export complete: %d tables, %d records, %d dropped",
		strings.ToUpper(string(t.Format)), r.Tables, r.Records, r.Dropped)
	return r, nil
}

// Render builds the document for format under cfg and writes it to w.
func (c *Converter) Render(w io.Writer, format Format, cfg exportconfig.Config) (*Result, error) {
	if c.state != StateOpen {
		return nil, ErrNotOpen
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}

	c.state = StateExporting
	defer func() { c.state = StateOpen }()

	r := &Result{Format: format}
	root := document.NewObject()
	for _, e := range c.exporters {
		if c.OnTable != nil {
			c.OnTable(format, e.Name())
		}
		c.exportTable(e, format, cfg, root, r)
	}

	var err error
	switch format {
	case FormatXML:
		err = document.WriteXML(w, "database", document.ObjectValue(root))
	case FormatJSON:
		err = document.WriteJSON(w, document.ObjectValue(root))
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrOutput, err)
		r.Err = err
		return r, err
	}
	return r, nil
}

func (c *Converter) exportTable(e *TableExporter, format Format, cfg exportconfig.Config, root *document.Object, r *Result) {
	log := c.log.WithTable(e.Name())

	te, err := e.Export(cfg, format)
	if err != nil {
		r.Failed++
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: KindTableQuery, Format: format, Table: e.Name(), Row: -1, Err: err})
		log.Errorf("SQL error occurred trying to export table '%s': %v", e.Name(), err)
		return
	}
	if te.Skipped {
		r.Skipped++
		log.Debugf("Table '%s' excluded by configuration", e.Name())
		return
	}

	log.Debugf("Exporting contents for table '%s'", e.Name())
	for _, o := range te.Dropped() {
		r.Dropped++
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: KindRecord, Format: format, Table: e.Name(), Row: o.Row, Err: o.Reason})
		log.Warnf("Skipping record %d: %v", o.Row, o.Reason)
	}
	r.Records += te.Included()
	r.Tables++
	root.Set(e.Name(), te.Value())
}
