package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, `{
  "name": "app",
  "dependencies": {"react": "^18.0.0", "lodash": "^4.17.21"},
  "devDependencies": {"@types/node": "^20.0.0"},
  "peerDependencies": {"react": "*"},
  "optionalDependencies": {"fsevents": "*"}
}`)

	m, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, "app", m.Name)
	assert.Equal(t, path, m.Path)
	assert.Equal(t, []string{"@types/node", "lodash", "react"}, m.Externals())
}

func TestRead_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, `{"dependencies": [}`)

	_, err := Read(path)
	assert.ErrorContains(t, err, "failed to parse manifest")
}

func TestNearest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `{"name": "root", "dependencies": {"react": "1"}}`)
	nested := filepath.Join(dir, "src", "components")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	m, err := Nearest(nested)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "root", m.Name)
	assert.Equal(t, []string{"react"}, m.Externals())
}

func TestNearest_PrefersClosest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `{"name": "root"}`)
	writeFile(t, filepath.Join(dir, "pkg", FileName), `{"name": "pkg"}`)

	m, err := Nearest(filepath.Join(dir, "pkg"))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "pkg", m.Name)
}

func TestExternals_NilManifest(t *testing.T) {
	var m *Manifest
	assert.Nil(t, m.Externals())
}
