// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package builtincommand

import (
	"github.com/samber/lo"
)

type BuiltinCommand string

const (
	Inject    BuiltinCommand = "inject"
	Generate  BuiltinCommand = "generate"
	Validate  BuiltinCommand = "validate"
	Merge     BuiltinCommand = "merge"
	Workspace BuiltinCommand = "workspace"
	List      BuiltinCommand = "list"
)

var BuiltinCommands = []BuiltinCommand{Inject, Generate, Validate, Merge, Workspace}

func IsBuiltinCommand(args []string) bool {
	if len(args) > 1 {
		elems := lo.Map(BuiltinCommands, func(item BuiltinCommand, _ int) string {
			return string(item)
		})
		return lo.Contains(elems, args[1])
	}
	return false
}
