// Package genmap persists the record of previously generated artifacts so
// repeated runs are incremental and idempotent.
package genmap

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrCorrupt marks a generation map file that exists but cannot be parsed.
// The run must stop before any write rather than silently overwrite it.
var ErrCorrupt = errors.New("generation map is corrupt")

// Entry records one generated artifact.
type Entry struct {
	Field       string `yaml:"field"`
	Path        string `yaml:"path"`
	Template    string `yaml:"template"`
	Fingerprint string `yaml:"fingerprint"`
}

// document is the on-disk shape. Entries are kept sorted by field id so that
// re-serializing an unchanged map is byte-identical and diffs stay readable.
type document struct {
	Version int     `yaml:"version"`
	Fields  []Entry `yaml:"fields"`
}

const formatVersion = 1

// Map is the in-memory generation map. It is mutated only through Put and
// owned exclusively by the orchestrator for the duration of a run.
type Map struct {
	entries map[string]Entry
}

// New returns an empty map.
func New() *Map {
	return &Map{entries: make(map[string]Entry)}
}

// Load reads the map at path. A missing file yields an empty map (first
// run). An existing file that does not parse yields ErrCorrupt and the file
// is left untouched.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading generation map %s: %w", path, err)
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	if doc.Version != formatVersion {
		return nil, fmt.Errorf("%w: %s: unsupported version %d", ErrCorrupt, path, doc.Version)
	}

	m := New()
	for _, e := range doc.Fields {
		if e.Field == "" {
			return nil, fmt.Errorf("%w: %s: entry with empty field id", ErrCorrupt, path)
		}
		m.entries[e.Field] = e
	}
	return m, nil
}

// Get returns the entry for fieldID, if one exists.
func (m *Map) Get(fieldID string) (Entry, bool) {
	e, ok := m.entries[fieldID]
	return e, ok
}

// Put records a successful write. It is the only mutator during a run.
func (m *Map) Put(e Entry) {
	m.entries[e.Field] = e
}

// Len reports the number of recorded entries.
func (m *Map) Len() int { return len(m.entries) }

// FieldFor returns the field id whose entry records path, if any. Used to
// keep artifact paths owned by one field across runs.
func (m *Map) FieldFor(path string) (string, bool) {
	for id, e := range m.entries {
		if e.Path == path {
			return id, true
		}
	}
	return "", false
}

// Flush writes the map to path via a temp file and rename, creating parent
// directories as needed. Output is sorted by field id; flushing an unchanged
// map produces byte-identical output.
func (m *Map) Flush(path string) error {
	doc := document{Version: formatVersion, Fields: make([]Entry, 0, len(m.entries))}
	for _, e := range m.entries {
		doc.Fields = append(doc.Fields, e)
	}
	sort.Slice(doc.Fields, func(i, j int) bool {
		return doc.Fields[i].Field < doc.Fields[j].Field
	})

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encoding generation map: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating map directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".map-*")
	if err != nil {
		return fmt.Errorf("creating temp map file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing generation map: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing generation map: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing generation map %s: %w", path, err)
	}
	return nil
}
