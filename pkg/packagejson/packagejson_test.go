// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package packagejson

import (
	"os"
	"path/filepath"
	"testing"

	"daml.com/x/importmap/pkg/importmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = `{
	"name": "@org/app",
	"version": "1.2.3",
	"repository": {"type": "git", "url": "https://example.com/repo.git", "directory": "packages/app"},
	"dependencies": {"react": "^18.2.0", "@org/lib": "workspace:*"},
	"runtimeDependencies": {
		"map": {
			"imports": {"shim": "https://cdn.example.com/shim.js"}
		},
		"imports": {
			"react": "18.2.0",
			"@org/lib": {"version": "infer", "index": "main.js"}
		},
		"scopes": {
			"/legacy/": {"react": "17.0.2"}
		},
		"scope": "/app/",
		"scripts": [{"name": "boot", "version": "1.0.0", "type": "module"}]
	}
}`

func TestReadFromContents(t *testing.T) {
	m, err := ReadFromContents([]byte(manifest))
	require.NoError(t, err)

	assert.Equal(t, "@org/app", m.Name)
	assert.Equal(t, "1.2.3", m.Version)
	assert.Equal(t, "packages/app", m.Repository.Directory)

	v, ok := m.Dependency("@org/lib")
	assert.True(t, ok)
	assert.Equal(t, "workspace:*", v)
	_, ok = m.Dependency("missing")
	assert.False(t, ok)

	runtime := m.Runtime()
	assert.True(t, runtime.HasImports())
	assert.Equal(t, "/app/", runtime.Scope)
	assert.Equal(t, []string{"react", "@org/lib"}, runtime.Imports.Keys())

	react, _ := runtime.Imports.Get("react")
	assert.Equal(t, importmap.VersionEntry, react.Kind())
	shim, _ := runtime.Map.Imports.Get("shim")
	assert.Equal(t, importmap.URLEntry, shim.Kind())

	require.Len(t, runtime.Scripts, 1)
	assert.Equal(t, "boot", runtime.Scripts[0].Name)
}

func TestRuntimeTemplate(t *testing.T) {
	m, err := ReadFromContents([]byte(manifest))
	require.NoError(t, err)

	tmpl := m.Runtime().Template()
	assert.Equal(t, []string{"react", "@org/lib"}, tmpl.Imports.Keys())
	assert.Equal(t, []string{"/legacy/"}, tmpl.Scopes.Keys())

	// The template is a copy.
	tmpl.Imports.Delete("react")
	assert.True(t, m.RuntimeDependencies.Imports.Has("react"))
}

func TestRepositoryShorthand(t *testing.T) {
	m, err := ReadFromContents([]byte(`{"name": "x", "repository": "github:org/repo"}`))
	require.NoError(t, err)
	assert.Equal(t, "github:org/repo", m.Repository.URL)
	assert.Empty(t, m.Repository.Directory)
}

func TestNilManifest(t *testing.T) {
	var m *Manifest
	_, ok := m.Dependency("react")
	assert.False(t, ok)
	assert.NotNil(t, m.Runtime())
	assert.False(t, m.Runtime().HasImports())
	assert.True(t, m.Runtime().Template().IsEmpty())
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, Filename)

	_, err := Read(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(path, []byte(manifest), 0644))
	m, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, path, m.AbsolutePath)

	require.NoError(t, os.WriteFile(path, []byte(`{"name": `), 0644))
	_, err = Read(path)
	assert.ErrorContains(t, err, "failed to parse")
}
