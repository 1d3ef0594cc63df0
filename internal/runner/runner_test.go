package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/localize/internal/config"
	"github.com/LegacyCodeHQ/localize/internal/logging"
	"github.com/LegacyCodeHQ/localize/localize"
	"github.com/LegacyCodeHQ/localize/rewrite"
	"github.com/LegacyCodeHQ/localize/transform"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func flatConfig() *config.Config {
	cfg := config.Default()
	cfg.Layout = "flat"
	return &cfg
}

func TestRunner_ManifestDependenciesAreExternal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{"peerDependencies": {"react": "*"}}`)
	file := filepath.Join(dir, "src", "index.js")
	writeFile(t, file, "import React from 'react';\nimport get from 'lodash/get';\n")

	r := New(flatConfig(), logging.Discard(), nil)
	result, err := r.File(context.Background(), file)
	require.NoError(t, err)

	assert.Equal(t, "import React from 'react';\nimport get from '../local_modules/lodash/get';\n", string(result.Code))
}

func TestRunner_ManifestDisabled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{"dependencies": {"react": "*"}}`)
	file := filepath.Join(dir, "src", "index.js")
	writeFile(t, file, "import React from 'react';")

	cfg := flatConfig()
	cfg.Manifest = false
	result, err := New(cfg, logging.Discard(), nil).File(context.Background(), file)
	require.NoError(t, err)

	assert.Equal(t, "import React from '../local_modules/react';", string(result.Code))
}

func TestRunner_TransformerIsSharedPerManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{}`)
	r := New(flatConfig(), logging.Discard(), nil)

	a, err := r.Transformer(filepath.Join(dir, "a.js"))
	require.NoError(t, err)
	b, err := r.Transformer(filepath.Join(dir, "lib", "b.js"))
	require.NoError(t, err)

	assert.Same(t, a, b)
}

func TestRunner_FileErrors(t *testing.T) {
	dir := t.TempDir()
	r := New(flatConfig(), logging.Discard(), nil)

	_, err := r.File(context.Background(), filepath.Join(dir, "missing.js"))
	assert.ErrorContains(t, err, "failed to read")

	file := filepath.Join(dir, "bad.js")
	writeFile(t, file, "require(a, b);")
	_, err = r.File(context.Background(), file)
	assert.ErrorContains(t, err, "failed to transform")
}

func TestWrite_WithSourceMap(t *testing.T) {
	dir := t.TempDir()
	cfg := flatConfig()
	cfg.SourceMaps = true
	file := filepath.Join(dir, "src", "index.js")
	writeFile(t, file, "require('a');")

	result, err := New(cfg, logging.Discard(), nil).File(context.Background(), file)
	require.NoError(t, err)

	dest := filepath.Join(dir, "out", "index.js")
	require.NoError(t, Write(dest, result))

	code, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "require('../local_modules/a');\n//# sourceMappingURL=index.js.map\n", string(code))
	assert.FileExists(t, dest+".map")
}

func TestWrite_WithoutSourceMap(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "index.js")

	require.NoError(t, Write(dest, &transform.Result{Code: []byte("x")}))

	code, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "x", string(code))
	assert.NoFileExists(t, dest+".map")
}

func TestDestination(t *testing.T) {
	got, err := Destination("/repo/src/a/b.js", "/repo/src", "/out")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/out", "a", "b.js"), got)

	got, err = Destination("/repo/src/a/b.js", "/repo/src", "")
	require.NoError(t, err)
	assert.Equal(t, "/repo/src/a/b.js", got)
}

func TestSkipDirs(t *testing.T) {
	assert.Equal(t, []string{"node_modules", "local_modules"}, SkipDirs(flatConfig()))
}

func TestCommonDir(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{name: "none", files: nil, want: ""},
		{name: "single", files: []string{"/repo/src/a.js"}, want: "/repo/src"},
		{name: "nested", files: []string{"/repo/src/a.js", "/repo/src/lib/b.js"}, want: "/repo/src"},
		{name: "siblings", files: []string{"/repo/src/a.js", "/repo/test/b.js"}, want: "/repo"},
		{name: "prefix is not a parent", files: []string{"/repo/src/a.js", "/repo/srcx/b.js"}, want: "/repo"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tc.want), CommonDir(tc.files))
		})
	}
}

func TestKeepGoing(t *testing.T) {
	var buf bytes.Buffer
	var recorded []error
	report := KeepGoing(logging.New(&buf, false), func(err error) { recorded = append(recorded, err) })

	report(&localize.ResolutionError{Reference: "/repo/src/index.js", Specifier: "missing", Package: "missing", Err: localize.ErrPackageNotFound})
	assert.Empty(t, recorded)
	assert.Contains(t, buf.String(), "leaving specifier unchanged")

	classification := &rewrite.ClassificationError{File: "/repo/src/index.js", Construct: rewrite.ConstructRequire, Reason: "expected 1 argument, got 2"}
	report(classification)
	require.Len(t, recorded, 1)
	assert.Same(t, classification, recorded[0])
}

func TestKeepGoing_WithoutRecorder(t *testing.T) {
	var buf bytes.Buffer
	report := KeepGoing(logging.New(&buf, false), nil)

	report(&rewrite.ClassificationError{Construct: rewrite.ConstructRequire, Reason: "unsupported argument identifier"})

	assert.Contains(t, buf.String(), "unsupported argument identifier")
}
