package compressor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackAndExtractBundle_RoundTrips(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "select.tmpl"), []byte("class {{.ClassName}}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "text.tmpl"), []byte("text"), 0o644))

	bundle := filepath.Join(t.TempDir(), "templates.zip")
	require.NoError(t, PackBundle(src, bundle))
	require.NoError(t, IsBundle(bundle))

	dir, cleanup, err := ExtractBundle(bundle)
	require.NoError(t, err)
	defer cleanup()

	content, err := os.ReadFile(filepath.Join(dir, "select.tmpl"))
	require.NoError(t, err)
	assert.Equal(t, "class {{.ClassName}}", string(content))
	assert.FileExists(t, filepath.Join(dir, "nested", "text.tmpl"))
}

func TestExtractBundle_CleanupRemovesTempDir(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.tmpl"), []byte("a"), 0o644))
	bundle := filepath.Join(t.TempDir(), "b.zip")
	require.NoError(t, PackBundle(src, bundle))

	dir, cleanup, err := ExtractBundle(bundle)
	require.NoError(t, err)
	cleanup()
	assert.NoDirExists(t, dir)
}

func TestPackBundle_IsDeterministic(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "z.tmpl"), []byte("z"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.tmpl"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "b", "m.tmpl"), []byte("m"), 0o644))

	out := t.TempDir()
	first := filepath.Join(out, "first.zip")
	second := filepath.Join(out, "second.zip")
	require.NoError(t, PackBundle(src, first))
	require.NoError(t, PackBundle(src, second))

	bytesA, err := os.ReadFile(first)
	require.NoError(t, err)
	bytesB, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, bytesA, bytesB)
}

func TestIsBundle_MissingFile(t *testing.T) {
	err := IsBundle(filepath.Join(t.TempDir(), "nope.zip"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsBundle_RejectsNonZipContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.zip")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))
	assert.ErrorIs(t, IsBundle(path), os.ErrInvalid)
}

func TestExtractBundle_FailsOnNonZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.zip")
	require.NoError(t, os.WriteFile(path, []byte("PK but truncated"), 0o644))

	_, _, err := ExtractBundle(path)
	assert.Error(t, err)
}
