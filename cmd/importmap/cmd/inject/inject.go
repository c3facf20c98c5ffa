// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package inject

import (
	"fmt"
	"os"
	"path/filepath"

	"daml.com/x/importmap/pkg/app"
	"daml.com/x/importmap/pkg/builtincommand"
	"daml.com/x/importmap/pkg/config"
	"daml.com/x/importmap/pkg/diagnostics"
	"daml.com/x/importmap/pkg/inject"
	"daml.com/x/importmap/pkg/jsonfile"
	"daml.com/x/importmap/pkg/utils"
	"github.com/spf13/cobra"
)

func Cmd(c *config.Config) *cobra.Command {
	var output, id, domain, scope, write string
	var imports []string
	var strict bool

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s [html]", builtincommand.Inject),
		Short: "inject the import map and scripts into an html document",
		Long: `inject the import map and scripts into an html document

	the document defaults to the configured html file. the result is written
	to --output, or printed when there is none.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("id") {
				c.ID = id
			}
			if flags.Changed("domain") {
				c.Domain = config.Domain{Map: domain, Scripts: domain}
			}
			if flags.Changed("scope") {
				c.Scope = scope
			}
			if flags.Changed("strict") {
				c.Strict = &strict
			}
			if flags.Changed("write") {
				c.Write = config.ParseWrite(write)
			}
			if err := c.OverlayImports(imports); err != nil {
				return err
			}

			htmlPath, err := argPath(c, args, c.HTML)
			if err != nil {
				return err
			}
			outputPath := ""
			switch {
			case flags.Changed("output") && output != "":
				if outputPath, err = filepath.Abs(output); err != nil {
					return err
				}
			case !flags.Changed("output") && c.Output != "":
				outputPath = c.Path(c.Output)
			}
			if target, ok := c.Write.Target(); ok {
				c.Write = config.Write{Enabled: true, Path: c.Path(target)}
			}

			p, err := app.LoadProject(c, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			contents, err := os.ReadFile(htmlPath)
			if err != nil {
				return err
			}

			writer := jsonfile.NewWriter(p.Reporter)
			defer writer.Wait()

			transform := inject.Plugin(inject.PluginOptions{
				ID:        c.ID,
				Imports:   c.Imports,
				Map:       c.Map,
				Scripts:   c.Scripts,
				Domain:    c.Domain,
				Scope:     c.Scope,
				Manifest:  p.Manifest,
				Strict:    c.IsStrict(),
				Debug:     c.Debug,
				NoCache:   !c.UseCache(),
				Write:     c.Write,
				Indent:    c.Indent,
				Writer:    writer,
				Workspace: p.Workspace,
				Reporter:  p.Reporter,
			})
			out, err := transform(cmd.Context(), string(contents))
			if err != nil {
				cmd.SilenceUsage = true
				return err
			}

			if outputPath == "" {
				cmd.Print(out)
				return nil
			}
			if err := utils.EnsureDirs(filepath.Dir(outputPath)); err != nil {
				return err
			}
			if err := os.WriteFile(outputPath, []byte(out), 0644); err != nil {
				return err
			}
			diagnostics.Info(p.Reporter, "html written", "path", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write the mutated html to")
	cmd.Flags().StringVar(&id, "id", "", "id of the injected elements")
	cmd.Flags().StringVar(&domain, "domain", "", "domain of both import map entries and scripts")
	cmd.Flags().StringVar(&scope, "scope", "", "module scope used to validate scoped imports")
	cmd.Flags().BoolVar(&strict, "strict", true, "fail on version mismatches instead of warning")
	cmd.Flags().StringVar(&write, "write", "", "also write the import map: true, false, or a path")
	cmd.Flags().StringArrayVar(&imports, "import", nil, "(repeatable) override a configured import: name=version or name={json}")
	return cmd
}

// argPath resolves the optional positional argument against the working
// directory, falling back to fallback resolved against the config directory.
func argPath(c *config.Config, args []string, fallback string) (string, error) {
	if len(args) > 0 {
		return filepath.Abs(args[0])
	}
	return c.Path(fallback), nil
}
