// Package binding resolves which template governs a field and whether
// generation for it is suppressed.
package binding

import (
	"path/filepath"

	"brassworks.dev/fieldsmith/internal/config"
	"brassworks.dev/fieldsmith/internal/field"
)

// Binding describes the template that governs a field.
type Binding struct {
	// Template is the config-declared template name, recorded in the
	// generation map so a template swap forces regeneration reporting.
	Template string

	// Path is the template file path, resolved against the template root.
	Path string

	// LoadOptions requests that the field's option values be fetched and
	// passed to the template.
	LoadOptions bool
}

// Table maps field ids and type ids to template bindings. It is built once
// from configuration and never mutated afterwards.
type Table struct {
	byField map[string]*Binding
	byType  map[string]*Binding
}

func NewTable() *Table {
	return &Table{
		byField: make(map[string]*Binding),
		byType:  make(map[string]*Binding),
	}
}

// Bind associates an exact field id with b.
func (t *Table) Bind(fieldID string, b *Binding) {
	t.byField[fieldID] = b
}

// BindType associates an exact type id with b.
func (t *Table) BindType(typeID string, b *Binding) {
	t.byType[typeID] = b
}

// Resolve returns the binding governing f, preferring an exact field-id
// binding over a type-id binding. A nil result means the field is unbound,
// which is not an error.
func (t *Table) Resolve(f *field.Field) *Binding {
	if b, ok := t.byField[f.ID]; ok {
		return b
	}
	if b, ok := t.byType[f.Type]; ok {
		return b
	}
	return nil
}

// BuildTable constructs the binding table from declared template entries.
//
// An entry without a source path is a configuration problem and contributes
// nothing to the table; the remaining entries still build (partial success).
// An entry referencing no field and no type is unreachable and recorded as a
// warning only.
func BuildTable(t config.Templates, root string, rep *config.Report) *Table {
	table := NewTable()
	for _, e := range t.Entries {
		if e.Path == "" {
			rep.Problemf("template %q has no source path", e.Name)
			continue
		}
		if len(e.Fields) == 0 && len(e.Types) == 0 {
			rep.Warnf("template %q is bound to no field or type and will never be used", e.Name)
			continue
		}
		b := &Binding{
			Template:    e.Name,
			Path:        filepath.Join(root, e.Path),
			LoadOptions: e.LoadOptions,
		}
		for _, id := range e.Fields {
			table.Bind(id, b)
		}
		for _, id := range e.Types {
			table.BindType(id, b)
		}
	}
	return table
}
