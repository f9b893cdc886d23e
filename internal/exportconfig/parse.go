package exportconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrConfigParse marks a configuration file or entry that was ignored.
var ErrConfigParse = errors.New("config parse error")

// MaxFileSize is the largest configuration file Load accepts.
const MaxFileSize = 32 * 1024

// Section names of the configuration file.
const (
	SectionCommon = "common"
	SectionXML    = "xml"
	SectionJSON   = "json"
)

// File is a parsed configuration file: common rules plus optional per-format overrides.
type File struct {
	Common    Config
	overrides map[string]Config
}

// For returns the effective rules for a format section ("xml" or "json").
func (f File) For(format string) Config {
	override, ok := f.overrides[format]
	if !ok {
		return f.Common
	}
	return Merge(f.Common, override)
}

// HasOverride reports whether the file carries a section for format.
func (f File) HasOverride(format string) bool {
	_, ok := f.overrides[format]
	return ok
}

// Load reads and parses a configuration file. Every returned error wraps ErrConfigParse
// and is recoverable: a file that cannot be used at all yields the empty File.
func Load(path string) (File, []error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, []error{fmt.Errorf("%w: cannot read %s: %w", ErrConfigParse, path, err)}
	}
	defer fh.Close()

	data, err := io.ReadAll(io.LimitReader(fh, MaxFileSize+1))
	if err != nil {
		return File{}, []error{fmt.Errorf("%w: cannot read %s: %w", ErrConfigParse, path, err)}
	}
	if len(data) > MaxFileSize {
		return File{}, []error{fmt.Errorf("%w: %s is larger than %d bytes", ErrConfigParse, path, MaxFileSize)}
	}

	f, errs := Parse(data)
	for i, e := range errs {
		errs[i] = fmt.Errorf("%s: %w", path, e)
	}
	return f, errs
}

// Parse decodes a configuration document. Malformed JSON discards the whole document;
// sections and entries of the wrong shape are skipped one by one.
func Parse(data []byte) (File, []error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return File{}, []error{fmt.Errorf("%w: invalid data: %w", ErrConfigParse, err)}
	}
	if top == nil {
		return File{}, []error{fmt.Errorf("%w: invalid data: top level is not an object", ErrConfigParse)}
	}

	var (
		f    File
		errs []error
	)
	for _, name := range []string{SectionCommon, SectionXML, SectionJSON} {
		raw, ok := top[name]
		if !ok || isNull(raw) {
			continue
		}
		cfg, sectionErrs, ok := parseSection(name, raw)
		errs = append(errs, sectionErrs...)
		if !ok {
			continue
		}
		if name == SectionCommon {
			f.Common = cfg
			continue
		}
		if f.overrides == nil {
			f.overrides = make(map[string]Config)
		}
		f.overrides[name] = cfg
	}
	return f, errs
}

// ParseSection decodes one `{"keys": {...}, "excludes": [...]}` object. Data that is
// not an object yields an empty Config and a single error.
func ParseSection(data []byte) (Config, []error) {
	cfg, errs, _ := parseSection("section", data)
	return cfg, errs
}

func parseSection(name string, raw json.RawMessage) (Config, []error, bool) {
	var section map[string]json.RawMessage
	if err := json.Unmarshal(raw, &section); err != nil || section == nil {
		return Config{}, []error{fmt.Errorf("%w: %s is not an object", ErrConfigParse, name)}, false
	}

	var (
		cfg  Config
		errs []error
	)

	// Import the key map information (if available)...
	if rawKeys, ok := section["keys"]; ok && !isNull(rawKeys) {
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(rawKeys, &keys); err != nil || keys == nil {
			errs = append(errs, fmt.Errorf("%w: %s.keys is not an object", ErrConfigParse, name))
		} else {
			tables := make([]string, 0, len(keys))
			for table := range keys {
				tables = append(tables, table)
			}
			sort.Strings(tables)
			for _, table := range tables {
				var field string
				if err := json.Unmarshal(keys[table], &field); err != nil || isNull(keys[table]) {
					errs = append(errs, fmt.Errorf("%w: %s.keys.%s is not a string", ErrConfigParse, name, table))
					continue
				}
				cfg = cfg.withKey(table, field)
			}
		}
	}

	// Import the exclude list information (if available)...
	if rawExcludes, ok := section["excludes"]; ok && !isNull(rawExcludes) {
		var excludes []json.RawMessage
		if err := json.Unmarshal(rawExcludes, &excludes); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s.excludes is not an array", ErrConfigParse, name))
		} else {
			for i, rawEntry := range excludes {
				var entry string
				if err := json.Unmarshal(rawEntry, &entry); err != nil || isNull(rawEntry) {
					errs = append(errs, fmt.Errorf("%w: %s.excludes[%d] is not a string", ErrConfigParse, name, i))
					continue
				}
				cfg = cfg.withExclude(entry)
			}
		}
	}

	return cfg, errs, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func formatKeys(keys map[string]string) string {
	tables := make([]string, 0, len(keys))
	for t := range keys {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	pairs := make([]string, len(tables))
	for i, t := range tables {
		pairs[i] = t + ":" + keys[t]
	}
	return "{" + strings.Join(pairs, ",") + "}"
}
