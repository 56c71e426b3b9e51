// Package render produces artifact text from a template file and a field
// context.
package render

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
	"unicode"
)

// Renderer is the rendering collaborator the generator depends on.
type Renderer interface {
	Render(templatePath string, data any) (string, error)
}

// TemplateRenderer renders with text/template. Parsed templates are cached
// per path for the duration of a run.
type TemplateRenderer struct {
	cache map[string]*template.Template
}

func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{cache: make(map[string]*template.Template)}
}

func (r *TemplateRenderer) Render(templatePath string, data any) (string, error) {
	tpl, ok := r.cache[templatePath]
	if !ok {
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			return "", fmt.Errorf("reading template %s: %w", templatePath, err)
		}
		tpl, err = template.New(templatePath).Funcs(funcs).Parse(string(raw))
		if err != nil {
			return "", fmt.Errorf("parsing template %s: %w", templatePath, err)
		}
		r.cache[templatePath] = tpl
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering template %s: %w", templatePath, err)
	}
	return buf.String(), nil
}

var funcs = template.FuncMap{
	"pascal": Pascal,
	"upper":  strings.ToUpper,
	"lower":  strings.ToLower,
}

// Pascal turns a display name into a PascalCase identifier, dropping every
// non-alphanumeric rune. "Story Points" becomes "StoryPoints".
func Pascal(s string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if upperNext {
				b.WriteRune(unicode.ToUpper(r))
				upperNext = false
			} else {
				b.WriteRune(r)
			}
		default:
			upperNext = true
		}
	}
	return b.String()
}
