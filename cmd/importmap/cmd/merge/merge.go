// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"fmt"
	"path/filepath"
	"strings"

	"daml.com/x/importmap/pkg/builtincommand"
	"daml.com/x/importmap/pkg/config"
	"daml.com/x/importmap/pkg/importmap"
	"daml.com/x/importmap/pkg/jsonfile"
	"github.com/spf13/cobra"
)

func Cmd(c *config.Config) *cobra.Command {
	var entries []string
	var base, output string

	cmd := &cobra.Command{
		Use:   string(builtincommand.Merge),
		Short: "merge resolved import maps without overriding any url",
		Long: `merge resolved import maps without overriding any url

	each --entry is a resolved import map contributed under a scope, written
	scope=path.json. top-level imports that disagree with an earlier entry are
	moved into the entry's scope. conflicting urls within a scope are errors.
`,
		Example: `  importmap merge --entry /apps/a/=a/import-map.json --entry /apps/b/=b/import-map.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scoped, err := readEntries(entries)
			if err != nil {
				return err
			}

			var baseMap *importmap.ImportMap
			if base != "" {
				baseMap = importmap.New()
				if err := jsonfile.Read(base, baseMap); err != nil {
					return err
				}
			}

			merged, err := importmap.MergeByScope(scoped, baseMap)
			if err != nil {
				cmd.SilenceUsage = true
				return err
			}

			if output != "" {
				path, err := filepath.Abs(output)
				if err != nil {
					return err
				}
				return jsonfile.Write(cmd.Context(), path, merged, c.Indent)
			}
			data, err := jsonfile.Marshal(merged, c.Indent)
			if err != nil {
				return err
			}
			cmd.Print(string(data))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&entries, "entry", "e", nil, "(required, repeatable) scope=path.json")
	cmd.Flags().StringVar(&base, "base", "", "import map the entries are merged into")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write the merged map to")
	_ = cmd.MarkFlagRequired("entry")
	return cmd
}

// readEntries parses "scope=path" arguments. The scope is required since
// disagreeing imports are demoted into it.
func readEntries(args []string) ([]importmap.ScopedMap, error) {
	result := make([]importmap.ScopedMap, 0, len(args))
	for _, arg := range args {
		scope, path, _ := strings.Cut(arg, "=")
		if scope == "" || path == "" {
			return nil, fmt.Errorf("invalid entry %q, expected scope=path.json", arg)
		}
		m := importmap.New()
		if err := jsonfile.Read(path, m); err != nil {
			return nil, err
		}
		result = append(result, importmap.ScopedMap{Scope: scope, Map: m})
	}
	return result, nil
}
