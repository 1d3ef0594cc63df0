package inspect

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/localize/internal/testhelpers"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func project(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	writeFile(t, filepath.Join(dir, "node_modules", "lodash", "package.json"), `{"name": "lodash"}`)
	writeFile(t, filepath.Join(dir, "src", "index.js"), `import get from 'lodash/get';
import fs from 'fs';
import a from './a';
require(x, y);
`)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInspectCommand_Text(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	dir := project(t)

	out, err := execute(t, filepath.Join(dir, "src", "index.js"))
	require.NoError(t, err)

	g := testhelpers.TextGoldie(t)
	g.Assert(t, "inspect_text", []byte(out))
}

func TestInspectCommand_JSON(t *testing.T) {
	dir := project(t)

	out, err := execute(t, filepath.Join(dir, "src"), "--format", "json")
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 4)

	assert.Equal(t, "index.js", entries[0]["file"])
	assert.Equal(t, "lodash/get", entries[0]["specifier"])
	assert.Equal(t, "package", entries[0]["kind"])
	assert.Equal(t, "../local_modules/lodash/get", entries[0]["localized"])
	assert.Equal(t, "builtin", entries[1]["kind"])
	assert.Equal(t, "relative", entries[2]["kind"])
	assert.NotContains(t, entries[2], "package")
	assert.Equal(t, "invalid require call (expected 1 argument, got 2)", entries[3]["error"])
}

func TestInspectCommand_DOT(t *testing.T) {
	dir := project(t)
	writeFile(t, filepath.Join(dir, "src", "view.tsx"), "import React from 'react';\nimport get from 'lodash/get';\n")

	out, err := execute(t, filepath.Join(dir, "src"), "--format", "dot")
	require.NoError(t, err)

	assert.True(t, strings.Contains(out, "digraph"), out)
	assert.Contains(t, out, `"index.js"`)
	assert.Contains(t, out, `"view.tsx"`)
	assert.Contains(t, out, `"lodash"`)
	assert.Contains(t, out, `"fs"`)
	assert.Contains(t, out, `"react"`)
	assert.NotContains(t, out, `"./a"`)
	assert.Contains(t, out, "rankdir")
}

func TestInspectCommand_UnknownFormat(t *testing.T) {
	_, err := execute(t, ".", "--format", "yaml")
	assert.ErrorContains(t, err, `unknown format "yaml"`)
}

func TestInspectCommand_NoFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir)
	assert.ErrorContains(t, err, "no JavaScript or TypeScript files found")
}

func TestWriteText_FileWithoutSpecifiers(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var out bytes.Buffer

	require.NoError(t, writeText(&out, []fileEntries{{file: "a.js"}}))

	assert.Equal(t, "a.js\n  no module specifiers\n", out.String())
}

func TestExtensionColors(t *testing.T) {
	colors := extensionColors([]fileEntries{{file: "b.ts"}, {file: "a.js"}, {file: "c.js"}})

	assert.Equal(t, map[string]string{".js": "white", ".ts": "lightblue"}, colors)
}
