// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"io"
	"log/slog"
	"path/filepath"

	"daml.com/x/importmap/pkg/config"
	"daml.com/x/importmap/pkg/diagnostics"
	"daml.com/x/importmap/pkg/packagejson"
	"daml.com/x/importmap/pkg/workspace"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type App struct {
	Stderr, Stdout io.Writer
	Stdin          io.Reader
	// must contain at least one argument, namely the binary name, similar to os.Args
	OsArgs []string
}

func (a *App) SetOutputStreams(cmd *cobra.Command) {
	cmd.SetOut(a.Stdout)
	cmd.SetErr(a.Stderr)
	cmd.SetIn(a.Stdin)

	lo.ForEach(cmd.Commands(), func(sub *cobra.Command, _ int) {
		a.SetOutputStreams(sub)
	})
}

// Project is what a command works on: the config, the manifest it points
// to, and the workspace around it.
type Project struct {
	Config    *config.Config
	Manifest  *packagejson.Manifest
	Workspace *workspace.Workspace
	Reporter  diagnostics.Reporter
}

// LoadProject reads the manifest named by c and locates its workspace.
// Diagnostics are printed to w.
func LoadProject(c *config.Config, w io.Writer) (*Project, error) {
	reporter := diagnostics.NewPrinter(w, lo.Ternary(c.Debug, slog.LevelDebug, slog.LevelInfo))

	manifest, err := c.ReadManifest()
	if err != nil {
		return nil, err
	}

	root, err := workspaceRoot(c, manifest)
	if err != nil {
		return nil, err
	}
	if c.Debug {
		diagnostics.Debug(reporter, "workspace root", "path", root)
	}

	return &Project{
		Config:    c,
		Manifest:  manifest,
		Workspace: workspace.New(root, workspace.WithReporter(reporter)),
		Reporter:  reporter,
	}, nil
}

// workspaceRoot is the configured workspace, else the root derived from the
// manifest's repository.directory, else the enclosing git worktree.
func workspaceRoot(c *config.Config, manifest *packagejson.Manifest) (string, error) {
	switch {
	case c.Workspace != "":
		return c.Path(c.Workspace), nil
	case manifest != nil && manifest.Repository != nil && manifest.Repository.Directory != "":
		return workspace.RootFor(filepath.Dir(manifest.AbsolutePath), manifest), nil
	default:
		return workspace.FindRoot(c.Dir)
	}
}
