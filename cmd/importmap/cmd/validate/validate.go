// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"fmt"
	"path/filepath"

	"daml.com/x/importmap/pkg/app"
	"daml.com/x/importmap/pkg/builtincommand"
	"daml.com/x/importmap/pkg/config"
	"daml.com/x/importmap/pkg/importmap"
	"daml.com/x/importmap/pkg/jsonfile"
	"daml.com/x/importmap/pkg/validator"
	"github.com/spf13/cobra"
)

func Cmd(c *config.Config) *cobra.Command {
	var scope string
	var strict bool

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <import map json>", builtincommand.Validate),
		Short: "check an import map against the local dependency versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("scope") {
				c.Scope = scope
			}
			if cmd.Flags().Changed("strict") {
				c.Strict = &strict
			}

			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			m := importmap.New()
			if err := jsonfile.Read(path, m); err != nil {
				return err
			}

			p, err := app.LoadProject(c, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if _, err := validator.Validate(m, validator.Options{
				Manifest:  p.Manifest,
				Scope:     c.Scope,
				Strict:    c.IsStrict(),
				Debug:     c.Debug,
				NoCache:   !c.UseCache(),
				Workspace: p.Workspace,
				Reporter:  p.Reporter,
			}); err != nil {
				cmd.SilenceUsage = true
				return err
			}

			cmd.Printf("%s: ok\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "module scope used to validate scoped imports")
	cmd.Flags().BoolVar(&strict, "strict", true, "fail on version mismatches instead of warning")
	return cmd
}
