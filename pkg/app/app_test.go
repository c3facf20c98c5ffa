// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"daml.com/x/importmap/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOutputStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	a := &App{Stdout: &out, Stderr: &errOut}

	root := &cobra.Command{Use: "root"}
	sub := &cobra.Command{Use: "sub", Run: func(cmd *cobra.Command, _ []string) {
		cmd.Print("to stdout")
		cmd.PrintErr("to stderr")
	}}
	root.AddCommand(sub)
	a.SetOutputStreams(root)

	root.SetArgs([]string{"sub"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "to stdout", out.String())
	assert.Equal(t, "to stderr", errOut.String())
}

func TestLoadProject(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "packages", "app")
	require.NoError(t, os.MkdirAll(pkgDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "package.json"),
		[]byte(`{"name": "app", "repository": {"directory": "packages/app"}}`), 0644))

	tests := []struct {
		name     string
		config   *config.Config
		expected string
	}{
		{
			name:     "from repository directory",
			config:   &config.Config{Dir: pkgDir, Manifest: "package.json"},
			expected: root,
		},
		{
			name:     "explicit workspace",
			config:   &config.Config{Dir: pkgDir, Manifest: "package.json", Workspace: "../.."},
			expected: root,
		},
		{
			name:     "no manifest outside of git",
			config:   &config.Config{Dir: root, Manifest: "package.json"},
			expected: root,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := LoadProject(tt.config, &bytes.Buffer{})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.Workspace.Root())
			assert.NotNil(t, p.Reporter)
		})
	}
}

func TestLoadProjectMalformedManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{`), 0644))

	_, err := LoadProject(&config.Config{Dir: dir, Manifest: "package.json"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "failed to parse")
}
