package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "class.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRender_ExecutesTemplateWithContext(t *testing.T) {
	path := writeTemplate(t, "class {{.ClassName}} extends {{.Base}} {}\n")
	r := NewTemplateRenderer()

	out, err := r.Render(path, map[string]string{"ClassName": "StoryPoints", "Base": "Field"})
	require.NoError(t, err)
	assert.Equal(t, "class StoryPoints extends Field {}\n", out)
}

func TestRender_ExposesNamingHelpers(t *testing.T) {
	path := writeTemplate(t, "{{pascal .Name}}/{{upper .Name}}")
	r := NewTemplateRenderer()

	out, err := r.Render(path, map[string]string{"Name": "story points"})
	require.NoError(t, err)
	assert.Equal(t, "StoryPoints/STORY POINTS", out)
}

func TestRender_MissingTemplateFails(t *testing.T) {
	r := NewTemplateRenderer()
	_, err := r.Render(filepath.Join(t.TempDir(), "nope.tmpl"), nil)
	assert.Error(t, err)
}

func TestRender_BadTemplateSyntaxFails(t *testing.T) {
	path := writeTemplate(t, "{{.Unclosed")
	r := NewTemplateRenderer()
	_, err := r.Render(path, nil)
	assert.Error(t, err)
}

func TestPascal(t *testing.T) {
	assert.Equal(t, "StoryPoints", Pascal("Story Points"))
	assert.Equal(t, "Customfield10042", Pascal("customfield_10042"))
	assert.Equal(t, "DevTeam", Pascal("dev-team"))
	assert.Equal(t, "", Pascal("!!!"))
	assert.Equal(t, "", Pascal(""))
}
