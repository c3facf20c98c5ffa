// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
)

// Sorted returns the packages ordered by name.
func (p Packages) Sorted() []*Package {
	r := lo.Values(p)
	slices.SortFunc(r, func(a, b *Package) int {
		return strings.Compare(a.Name, b.Name)
	})
	return r
}

// Table renders the packages with paths relative to root. Versions that are
// not valid semver are shown faint.
func (p Packages) Table(root string) string {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Headers("NAME", "VERSION", "PATH").
		Rows(lo.Map(p.Sorted(), func(row *Package, _ int) []string {
			v := row.Version
			if _, err := semver.NewVersion(v); err != nil {
				v = lipgloss.NewStyle().Faint(true).Italic(true).Render(lo.Ternary(v == "", "-", v))
			}
			path := row.Path
			if rel, err := filepath.Rel(root, row.Path); err == nil {
				path = rel
			}
			return []string{row.Name, v, path}
		})...).
		String()
}
