// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"daml.com/x/importmap/pkg/diagnostics"
	"daml.com/x/importmap/pkg/packagejson"
	"github.com/go-git/go-git/v5"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func setupTree(t *testing.T) string {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name": "root", "version": "0.0.0"}`)
	writeFile(t, filepath.Join(root, "packages", "a", "package.json"), `{"name": "@scope/a", "version": "1.2.3"}`)
	writeFile(t, filepath.Join(root, "packages", "b", "package.json"), `{"name": "b", "version": "^2.0.0"}`)
	writeFile(t, filepath.Join(root, "packages", "b", "node_modules", "dep", "package.json"), `{"name": "dep", "version": "9.9.9"}`)
	writeFile(t, filepath.Join(root, "packages", "broken", "package.json"), `{"name": `)
	writeFile(t, filepath.Join(root, "dist", "package.json"), `{"name": "ignored", "version": "1.0.0"}`)
	writeFile(t, filepath.Join(root, ".gitignore"), "dist/\n")
	return root
}

func TestScan(t *testing.T) {
	root := setupTree(t)
	c := &diagnostics.Collector{}
	w := New(root, WithReporter(c))

	packages, err := w.Packages(true)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"root", "@scope/a", "b"}, lo.Keys(packages))
	assert.Equal(t, "1.2.3", packages["@scope/a"].Version)
	assert.Equal(t, filepath.Join(root, "packages", "a"), packages["@scope/a"].Path)
	require.Len(t, c.Warnings(), 1)
	assert.Contains(t, c.Warnings()[0], "skipping malformed manifest")
}

func TestVersion(t *testing.T) {
	root := setupTree(t)
	c := &diagnostics.Collector{}
	w := New(root, WithReporter(c))

	v, ok := w.Version("b", true)
	assert.True(t, ok)
	assert.Equal(t, "^2.0.0", v)

	_, ok = w.Version("dep", true)
	assert.False(t, ok)
	assert.Contains(t, c.Warnings(), "no workspace version found name=dep root="+root)
}

func TestCache(t *testing.T) {
	root := setupTree(t)
	w := New(root, WithReporter(diagnostics.Discard))

	_, ok := w.Lookup("c", true)
	require.False(t, ok)

	writeFile(t, filepath.Join(root, "packages", "c", "package.json"), `{"name": "c", "version": "3.0.0"}`)

	_, ok = w.Lookup("c", true)
	assert.False(t, ok, "cached scan should not see the new package")

	p, ok := w.Lookup("c", false)
	require.True(t, ok)
	assert.Equal(t, "3.0.0", p.Version)

	require.NoError(t, os.RemoveAll(filepath.Join(root, "packages", "c")))
	_, ok = w.Lookup("c", true)
	assert.True(t, ok, "rebuilt cache is shared")

	w.Invalidate()
	_, ok = w.Lookup("c", true)
	assert.False(t, ok)
}

func TestConcurrentFirstUse(t *testing.T) {
	root := setupTree(t)
	w := New(root, WithReporter(diagnostics.Discard))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, ok := w.Version("@scope/a", true)
			assert.True(t, ok)
			assert.Equal(t, "1.2.3", v)
		}()
	}
	wg.Wait()
}

func TestMissingRoot(t *testing.T) {
	c := &diagnostics.Collector{}
	w := New(filepath.Join(t.TempDir(), "missing"), WithReporter(c))

	_, err := w.Packages(true)
	assert.Error(t, err)

	_, ok := w.Version("a", true)
	assert.False(t, ok)
	assert.Len(t, c.Warnings(), 2)
}

func TestRootFor(t *testing.T) {
	tests := []struct {
		name      string
		directory string
		expected  string
	}{
		{"no repository directory", "", "/repo/packages/a"},
		{"two segments", "packages/a", "/repo"},
		{"trailing slash", "packages/a/", "/repo"},
		{"one segment", "a", "/repo/packages"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &packagejson.Manifest{Repository: &packagejson.Repository{Directory: tt.directory}}
			assert.Equal(t, filepath.FromSlash(tt.expected), RootFor(filepath.FromSlash("/repo/packages/a"), m))
		})
	}
	assert.Equal(t, filepath.FromSlash("/repo"), RootFor(filepath.FromSlash("/repo"), nil))
}

func TestFindRoot(t *testing.T) {
	t.Run("inside a git worktree", func(t *testing.T) {
		root := t.TempDir()
		_, err := git.PlainInit(root, false)
		require.NoError(t, err)
		sub := filepath.Join(root, "packages", "a")
		require.NoError(t, os.MkdirAll(sub, 0755))

		found, err := FindRoot(sub)
		require.NoError(t, err)
		expected, err := filepath.EvalSymlinks(root)
		require.NoError(t, err)
		actual, err := filepath.EvalSymlinks(found)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	})

	t.Run("outside of git", func(t *testing.T) {
		dir := t.TempDir()
		found, err := FindRoot(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, found)
	})
}

func TestTable(t *testing.T) {
	root := setupTree(t)
	packages, err := New(root, WithReporter(diagnostics.Discard)).Packages(true)
	require.NoError(t, err)

	out := packages.Table(root)
	assert.Contains(t, out, "@scope/a")
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, filepath.Join("packages", "a"))
	assert.Equal(t, []string{"@scope/a", "b", "root"}, []string{
		packages.Sorted()[0].Name, packages.Sorted()[1].Name, packages.Sorted()[2].Name,
	})
}
