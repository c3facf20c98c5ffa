// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"daml.com/x/importmap/cmd/importmap/cmd/generate"
	"daml.com/x/importmap/cmd/importmap/cmd/inject"
	"daml.com/x/importmap/cmd/importmap/cmd/merge"
	"daml.com/x/importmap/cmd/importmap/cmd/validate"
	"daml.com/x/importmap/cmd/importmap/cmd/workspace"
	"daml.com/x/importmap/pkg/app"
	"daml.com/x/importmap/pkg/buildinfo"
	"daml.com/x/importmap/pkg/builtincommand"
	"daml.com/x/importmap/pkg/config"
	"daml.com/x/importmap/pkg/logging"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const (
	mapGroupId  = "map"
	metaGroupId = "meta"
	Name        = "importmap"
)

func RootCmd(ctx context.Context, a *app.App) (*cobra.Command, error) {
	var configFile string
	var debug bool
	c := &config.Config{}

	cmd := &cobra.Command{
		Use:   Name,
		Short: "generate, validate and inject browser import maps",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			loaded, err := config.GetWithConfigFile(dir, lo.Ternary(configFile != "", configFile, os.Getenv(config.ConfigEnvVar)))
			if err != nil {
				return err
			}
			loaded.Debug = loaded.Debug || debug
			if loaded.Debug {
				logging.EnableDebug()
			}
			*c = *loaded
			return nil
		},
	}

	defer a.SetOutputStreams(cmd)

	if len(a.OsArgs) == 0 {
		return nil, fmt.Errorf("App.OsArgs must contain at least one entry similar to os.Args")
	}

	args := a.OsArgs[1:]
	if defaultsToInject(a.OsArgs) {
		args = append([]string{string(builtincommand.Inject)}, args...)
	}
	cmd.SetArgs(args)
	cmd.AddGroup(&cobra.Group{
		ID:    mapGroupId,
		Title: "Import Map Commands",
	})
	cmd.AddGroup(&cobra.Group{
		ID:    metaGroupId,
		Title: "Meta Commands",
	})

	if err := logging.InitLogging(); err != nil {
		return nil, err
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default ./%s, or $%s)", config.ConfigFileName, config.ConfigEnvVar))
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "print debug diagnostics")

	cmd.AddCommand(
		setCmdGroup(inject.Cmd(c), mapGroupId),
		setCmdGroup(generate.Cmd(c), mapGroupId),
		setCmdGroup(validate.Cmd(c), mapGroupId),
		setCmdGroup(merge.Cmd(c), mapGroupId),
		setCmdGroup(workspace.Cmd(c), metaGroupId),
	)

	version, err := yaml.Marshal(buildinfo.Get())
	if err != nil {
		return nil, err
	}
	cmd.Version = string(version)
	cmd.SetVersionTemplate("{{.Version}}")

	return cmd, nil
}

func setCmdGroup(cmd *cobra.Command, group string) *cobra.Command {
	cmd.GroupID = group
	return cmd
}

// defaultsToInject is true when the first argument is a document rather than
// a command, e.g. "importmap index.html".
func defaultsToInject(osArgs []string) bool {
	if len(osArgs) < 2 || builtincommand.IsBuiltinCommand(osArgs) {
		return false
	}
	first := osArgs[1]
	return !strings.HasPrefix(first, "-") && !lo.Contains([]string{
		"help",
		"completion",
		cobra.ShellCompRequestCmd,
		cobra.ShellCompNoDescRequestCmd,
	}, first)
}
