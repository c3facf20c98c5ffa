// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package generate

import (
	"fmt"

	"daml.com/x/importmap/pkg/app"
	"daml.com/x/importmap/pkg/builtincommand"
	"daml.com/x/importmap/pkg/config"
	"daml.com/x/importmap/pkg/generator"
	"daml.com/x/importmap/pkg/jsonfile"
	"daml.com/x/importmap/pkg/validator"
	"daml.com/x/importmap/pkg/versions"
	"github.com/spf13/cobra"
)

func Cmd(c *config.Config) *cobra.Command {
	var output, domain string
	var imports []string

	cmd := &cobra.Command{
		Use:   string(builtincommand.Generate),
		Short: "print the resolved import map",
		Long: `print the resolved import map

	versions are inferred from the manifest and the workspace, then checked
	against the declared dependencies. -o table lists each entry next to its
	local version.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("domain") {
				c.Domain = config.Domain{Map: domain, Scripts: domain}
			}
			if err := c.OverlayImports(imports); err != nil {
				return err
			}

			p, err := app.LoadProject(c, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			generated, err := generator.GenerateInferVersion(c.Imports, c.Map, generator.Options{
				Domain:    c.Domain.Map,
				Manifest:  p.Manifest,
				NoCache:   !c.UseCache(),
				Debug:     c.Debug,
				Workspace: p.Workspace,
				Reporter:  p.Reporter,
			})
			if err != nil {
				cmd.SilenceUsage = true
				return err
			}
			m, err := validator.Validate(generated, validator.Options{
				Manifest:  p.Manifest,
				Scope:     c.Scope,
				Strict:    c.IsStrict(),
				Debug:     c.Debug,
				NoCache:   !c.UseCache(),
				Workspace: p.Workspace,
				Reporter:  p.Reporter,
			})
			if err != nil {
				cmd.SilenceUsage = true
				return err
			}

			switch output {
			case "table":
				cmd.Println(versions.New(m, p.Manifest, p.Workspace, c.UseCache()).Table())
			case "json":
				data, err := jsonfile.Marshal(m, c.Indent)
				if err != nil {
					return err
				}
				cmd.Print(string(data))
			default:
				return fmt.Errorf("output format not supported: %s", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json, table")
	cmd.Flags().StringVar(&domain, "domain", "", "domain of the import map entries")
	cmd.Flags().StringArrayVar(&imports, "import", nil, "(repeatable) override a configured import: name=version or name={json}")
	return cmd
}
