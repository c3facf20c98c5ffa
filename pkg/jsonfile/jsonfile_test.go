// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package jsonfile

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"daml.com/x/importmap/pkg/diagnostics"
	"daml.com/x/importmap/pkg/importmap"
	"daml.com/x/importmap/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMap() *importmap.ImportMap {
	m := importmap.New()
	m.Imports.Set("b", "https://d/b@1.0.0/index.js")
	m.Imports.Set("a", "https://d/a@1.0.0/index.js")
	return m
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dist", "import-map.json")

	require.NoError(t, Write(testutil.Context(t), path, sampleMap(), DefaultIndent))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"imports\": {\n\t\t\"b\": \"https://d/b@1.0.0/index.js\",\n\t\t\"a\": \"https://d/a@1.0.0/index.js\"\n\t}\n}\n", string(data))
}

func TestWriterReportsFailures(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	c := &diagnostics.Collector{}
	w := NewWriter(c)
	w.WriteAsync(testutil.Context(t), filepath.Join(blocker, "import-map.json"), sampleMap(), "  ")
	w.WriteAsync(testutil.Context(t), filepath.Join(dir, "ok.json"), sampleMap(), "  ")
	w.Wait()

	errs := c.AtLevel(slog.LevelError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "failed to write import map to file")

	_, err := os.Stat(filepath.Join(dir, "ok.json"))
	assert.NoError(t, err)
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "import-map.json")
	require.NoError(t, Write(testutil.Context(t), path, sampleMap(), DefaultIndent))

	m := importmap.New()
	require.NoError(t, Read(path, m))
	assert.Equal(t, []string{"b", "a"}, m.Imports.Keys())

	assert.ErrorIs(t, Read(filepath.Join(dir, "missing.json"), m), os.ErrNotExist)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	assert.ErrorContains(t, Read(path, m), "failed to parse")
}
