// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"encoding/json"
	"fmt"

	"daml.com/x/importmap/pkg/app"
	"daml.com/x/importmap/pkg/builtincommand"
	"daml.com/x/importmap/pkg/config"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

func Cmd(c *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(builtincommand.Workspace),
		Short: "inspect the local workspace",
	}
	cmd.AddCommand(listCmd(c))
	return cmd
}

func listCmd(c *config.Config) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   string(builtincommand.List),
		Short: "list the packages of the workspace and their versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.LoadProject(c, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			packages, err := p.Workspace.Packages(c.UseCache())
			if err != nil {
				return err
			}

			switch output {
			case "table":
				cmd.Println(packages.Table(p.Workspace.Root()))
			case "json":
				data, err := json.MarshalIndent(packages.Sorted(), "", "    ")
				if err != nil {
					return err
				}
				cmd.Println(string(data))
			case "yaml":
				data, err := yaml.Marshal(packages.Sorted())
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

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: json, yaml, table")
	return cmd
}
