// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	cmd "daml.com/x/importmap/cmd/importmap/cmd"
	"daml.com/x/importmap/pkg/app"
	"daml.com/x/importmap/pkg/config"
	"daml.com/x/importmap/pkg/utils"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

type format string

const (
	markdown         format = "md"
	restructuredText format = "rst"
)

func main() {
	ctx, cancelFn := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancelFn()

	if err := docsCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func docsCmd() *cobra.Command {
	var f string

	c := &cobra.Command{
		Use:   "docs <output dir>",
		Short: "generate the importmap CLI reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if !slices.Contains([]format{markdown, restructuredText}, format(f)) {
				return fmt.Errorf("only %s or %s formats are supported", markdown, restructuredText)
			}

			dir := args[0]
			if err := genDocs(c.Context(), dir, format(f)); err != nil {
				c.SilenceUsage = true
				return err
			}
			c.Printf("reference generated at %s\n", dir)
			return nil
		},
	}

	c.Flags().StringVar(&f, "format", "", fmt.Sprintf("(required) %s or %s", markdown, restructuredText))
	_ = c.MarkFlagRequired("format")
	return c
}

func genDocs(ctx context.Context, dir string, f format) error {
	// the reference must not depend on the environment it is generated in
	for _, key := range config.EnvVars {
		if err := os.Unsetenv(key); err != nil {
			return err
		}
	}

	root, err := cmd.RootCmd(ctx, &app.App{OsArgs: []string{cmd.Name}})
	if err != nil {
		return err
	}
	root.DisableAutoGenTag = true
	for _, sub := range root.Commands() {
		sub.Hidden = false
	}

	if err := utils.EnsureDirs(dir); err != nil {
		return err
	}

	if f == restructuredText {
		header := func(filename string) string {
			title := pageTitle(filename)
			return fmt.Sprintf("%s\n%s\n\n", title, strings.Repeat("=", len(title)))
		}
		link := func(name, ref string) string {
			return fmt.Sprintf(":ref:`%s <%s>`", name, ref)
		}
		if err := doc.GenReSTTreeCustom(root, dir, header, link); err != nil {
			return err
		}
		return writeIndex(dir)
	}

	frontMatter := func(filename string) string {
		return fmt.Sprintf("---\nlayout: default\ntitle: %s\nparent: CLI reference\n---\n\n", pageTitle(filename))
	}
	return doc.GenMarkdownTreeCustom(root, dir, frontMatter, func(s string) string { return s })
}

// pageTitle turns "importmap_workspace_list.md" into "importmap workspace list".
func pageTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.ReplaceAll(strings.TrimSuffix(base, filepath.Ext(base)), "_", " ")
}

// writeIndex writes the index.rst toctree over every page in dir.
func writeIndex(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}

	pages := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		name := e.Name()
		return "   " + strings.TrimSuffix(name, ".rst"), filepath.Ext(name) == ".rst" && name != "index.rst"
	})

	index := ".. toctree::\n   :maxdepth: 2\n   :caption: CLI Reference:\n\n" + strings.Join(pages, "\n") + "\n"
	return os.WriteFile(filepath.Join(dir, "index.rst"), []byte(index), 0644)
}
