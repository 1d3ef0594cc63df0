package rewrite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/localize/specifier"
)

func flat(s string) string {
	return "../local_modules/" + s
}

func parse(t *testing.T, path, source string) *Module {
	t.Helper()
	m, err := Parse(context.Background(), path, []byte(source))
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func rewriteString(t *testing.T, path, source string) string {
	t.Helper()
	out, err := New(nil, nil).Rewrite(parse(t, path, source), flat)
	require.NoError(t, err)
	return string(out.Code)
}

func TestRewrite_StaticImports(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "default import",
			source: `import get from 'lodash/get';`,
			want:   `import get from '../local_modules/lodash/get';`,
		},
		{
			name:   "side effect import keeps double quotes",
			source: `import "core-js/stable";`,
			want:   `import "../local_modules/core-js/stable";`,
		},
		{
			name:   "scoped package",
			source: `import { logger } from '@storybook/node-logger';`,
			want:   `import { logger } from '../local_modules/@storybook/node-logger';`,
		},
		{
			name:   "relative import untouched",
			source: `import { a } from './a';`,
			want:   `import { a } from './a';`,
		},
		{
			name:   "builtin untouched",
			source: `import fs from 'fs'; import { readFile } from 'node:fs/promises';`,
			want:   `import fs from 'fs'; import { readFile } from 'node:fs/promises';`,
		},
		{
			name:   "export all",
			source: `export * from 'react-dom';`,
			want:   `export * from '../local_modules/react-dom';`,
		},
		{
			name:   "named re-export",
			source: `export { default as merge } from "lodash/merge";`,
			want:   `export { default as merge } from "../local_modules/lodash/merge";`,
		},
		{
			name:   "local export untouched",
			source: `export const version = 'lodash';`,
			want:   `export const version = 'lodash';`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, rewriteString(t, "/repo/src/index.js", tc.source))
		})
	}
}

func TestRewrite_Calls(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "require",
			source: `const React = require('react');`,
			want:   `const React = require('../local_modules/react');`,
		},
		{
			name:   "dynamic import",
			source: `const mod = await import('chalk');`,
			want:   `const mod = await import('../local_modules/chalk');`,
		},
		{
			name:   "require.resolve",
			source: `const p = require.resolve("react/package.json");`,
			want:   `const p = require.resolve("../local_modules/react/package.json");`,
		},
		{
			name:   "concatenation rewrites only the leading literal",
			source: `require('foo/' + suffix);`,
			want:   `require('../local_modules/foo/' + suffix);`,
		},
		{
			name:   "left-associative chain",
			source: `require('foo/' + dir + '/' + name + '.js');`,
			want:   `require('../local_modules/foo/' + dir + '/' + name + '.js');`,
		},
		{
			name:   "template literal head",
			source: "import(`bar/${id}`);",
			want:   "import(`../local_modules/bar/${id}`);",
		},
		{
			name:   "template literal without substitutions",
			source: "require(`bar`);",
			want:   "require(`../local_modules/bar`);",
		},
		{
			name:   "template literal for builtin untouched",
			source: "require(`fs/${x}`);",
			want:   "require(`fs/${x}`);",
		},
		{
			name:   "comment inside arguments",
			source: `require(/* webpackChunkName: "x" */ 'lodash');`,
			want:   `require(/* webpackChunkName: "x" */ '../local_modules/lodash');`,
		},
		{
			name:   "escaped literal is decoded before classification",
			source: `require('lo\u0064ash');`,
			want:   `require('../local_modules/lodash');`,
		},
		{
			name:   "relative concatenation untouched",
			source: `require('./locale/' + lang);`,
			want:   `require('./locale/' + lang);`,
		},
		{
			name:   "other callees untouched",
			source: `load('lodash'); obj.require('lodash'); require.cache('lodash');`,
			want:   `load('lodash'); obj.require('lodash'); require.cache('lodash');`,
		},
		{
			name:   "nested require inside call arguments",
			source: `wrap(require('lodash'), import('chalk'));`,
			want:   `wrap(require('../local_modules/lodash'), import('../local_modules/chalk'));`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, rewriteString(t, "/repo/src/index.js", tc.source))
		})
	}
}

func TestRewrite_TypeScript(t *testing.T) {
	source := `import type { Options } from 'prettier';
import fs = require('fs-extra');
export * from "@types/node";
const x: number = require('left-pad');
`
	want := `import type { Options } from '../local_modules/prettier';
import fs = require('../local_modules/fs-extra');
export * from "../local_modules/@types/node";
const x: number = require('../local_modules/left-pad');
`
	assert.Equal(t, want, rewriteString(t, "/repo/src/index.ts", source))
}

func TestRewrite_TSX(t *testing.T) {
	source := `import React from 'react';
export const App = () => <div>{require('lodash').now()}</div>;
`
	want := `import React from '../local_modules/react';
export const App = () => <div>{require('../local_modules/lodash').now()}</div>;
`
	assert.Equal(t, want, rewriteString(t, "/repo/src/App.tsx", source))
}

func TestRewrite_UnclassifiableCallAbortsWithoutReporter(t *testing.T) {
	m := parse(t, "/repo/src/index.js", `require('lodash'); require(a, b);`)

	out, err := New(nil, nil).Rewrite(m, flat)

	assert.Nil(t, out)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCall)

	var classErr *ClassificationError
	require.True(t, errors.As(err, &classErr))
	assert.Equal(t, ConstructRequire, classErr.Construct)
	assert.Equal(t, "expected 1 argument, got 2", classErr.Reason)
	assert.Len(t, classErr.Payload, 2)
}

func TestRewrite_UnclassifiableCallReportedAndSkipped(t *testing.T) {
	source := `require(a, b);
const x = require(name);
import(1);
require(base + '/x');
require(` + "`${dir}/x`" + `);
const y = require('lodash');
`
	var errs []error
	out, err := New(nil, func(err error) { errs = append(errs, err) }).Rewrite(parse(t, "/repo/src/index.js", source), flat)
	require.NoError(t, err)

	assert.Contains(t, string(out.Code), "require(a, b);")
	assert.Contains(t, string(out.Code), "require(name);")
	assert.Contains(t, string(out.Code), "require('../local_modules/lodash');")
	assert.Contains(t, string(out.Code), "require(`${dir}/x`);")
	require.Len(t, errs, 4)

	reasons := make([]string, 0, len(errs))
	for _, err := range errs {
		var classErr *ClassificationError
		require.True(t, errors.As(err, &classErr))
		reasons = append(reasons, classErr.Reason)
	}
	assert.Equal(t, []string{
		"expected 1 argument, got 2",
		"unsupported argument identifier",
		"unsupported argument number",
		"concatenation does not start with a string literal",
	}, reasons)
}

func TestRewrite_TemplateWithoutStaticHeadIsLeftAlone(t *testing.T) {
	source := "import a from 'lodash';\nconst m = import(`${dir}/x`);\nrequire(`${a}${b}`);\n"

	out, err := New(nil, nil).Rewrite(parse(t, "/repo/src/index.js", source), flat)

	require.NoError(t, err)
	assert.Equal(t, "import a from '../local_modules/lodash';\nconst m = import(`${dir}/x`);\nrequire(`${a}${b}`);\n", string(out.Code))
	assert.Len(t, out.Edits, 1)
}

func TestModule_SpecifierOfTemplateWithoutStaticHead(t *testing.T) {
	m := parse(t, "/repo/src/index.js", "import(`${dir}/x`);")
	candidates := m.Candidates()
	require.Len(t, candidates, 1)

	_, err := m.Specifier(candidates[0])

	assert.ErrorIs(t, err, ErrNoStaticText)
}

func TestRewrite_ParenthesizedArgument(t *testing.T) {
	out, err := New(nil, nil).Rewrite(parse(t, "/repo/src/index.js", "require(('lodash'));\nimport((('react')));\n"), flat)

	require.NoError(t, err)
	assert.Equal(t, "require(('../local_modules/lodash'));\nimport((('../local_modules/react')));\n", string(out.Code))
}

func TestRewrite_ClassificationPayloadHasNoPositions(t *testing.T) {
	var reported error
	_, err := New(nil, func(err error) { reported = err }).Rewrite(parse(t, "/repo/src/index.js", "\n\n  require(a, 'b');"), flat)
	require.NoError(t, err)
	require.Error(t, reported)

	msg := reported.Error()
	assert.Contains(t, msg, `"type": "identifier"`)
	assert.Contains(t, msg, `"text": "a"`)
	assert.NotContains(t, msg, `"start"`)
	assert.NotContains(t, msg, `"end"`)
	assert.NotContains(t, msg, `"loc"`)
}

func TestRewrite_LocalizeReturningInputProducesNoEdit(t *testing.T) {
	m := parse(t, "/repo/src/index.js", `import React from 'react';`)

	out, err := New(nil, nil).Rewrite(m, func(s string) string { return s })

	require.NoError(t, err)
	assert.Empty(t, out.Edits)
	assert.Equal(t, `import React from 'react';`, string(out.Code))
}

func TestRewrite_CustomBuiltins(t *testing.T) {
	m := parse(t, "/repo/src/main.js", `const { app } = require('electron'); require('lodash');`)

	out, err := New(specifier.NewClassifier("electron"), nil).Rewrite(m, flat)

	require.NoError(t, err)
	assert.Equal(t, `const { app } = require('electron'); require('../local_modules/lodash');`, string(out.Code))
}

func TestRewrite_RecordsEdits(t *testing.T) {
	source := `import a from 'a';
const b = require("b");`
	out, err := New(nil, nil).Rewrite(parse(t, "/repo/src/index.js", source), flat)
	require.NoError(t, err)

	require.Len(t, out.Edits, 2)
	assert.Equal(t, `'a'`, out.Edits[0].Original)
	assert.Equal(t, `'../local_modules/a'`, out.Edits[0].Text)
	assert.Equal(t, uint32(14), out.Edits[0].Start)
	assert.Equal(t, `"b"`, out.Edits[1].Original)
	assert.Equal(t, `"../local_modules/b"`, out.Edits[1].Text)
}

func TestRewrite_SyntaxErrorsStillRewriteParsedConstructs(t *testing.T) {
	m := parse(t, "/repo/src/broken.js", "import x from 'lodash';\nconst = ;\n")

	out, err := New(nil, nil).Rewrite(m, flat)

	require.NoError(t, err)
	assert.True(t, m.HasErrors())
	assert.Contains(t, string(out.Code), "import x from '../local_modules/lodash';")
}

func TestParse_UnsupportedExtension(t *testing.T) {
	_, err := Parse(context.Background(), "/repo/readme.md", []byte("# hi"))
	assert.Error(t, err)
}
