// Package field holds the in-memory model for remote custom field metadata.
package field

import "regexp"

// Field is an immutable snapshot of a remote custom field definition,
// fetched fresh on every run and never cached across runs.
type Field struct {
	// ID is the stable machine-generated identifier, e.g. "customfield_10042".
	ID string `json:"id"`

	// Name is the human-facing display name. Not unique.
	Name string `json:"name"`

	// Type identifies the field type implementation, e.g.
	// "com.example.fields:select". Skip rules and type bindings key on it.
	Type string `json:"type"`

	// Schema carries the remaining remote metadata (value schema, context
	// details) untouched; templates receive it as-is.
	Schema map[string]any `json:"schema,omitempty"`
}

// Option is one allowed value of an option-backed field.
type Option struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled"`
}

var idPattern = regexp.MustCompile(`^customfield_[0-9]+$`)

// IsID reports whether s follows the machine-generated field id convention.
// Anything else is treated as a display name.
func IsID(s string) bool {
	return idPattern.MatchString(s)
}
