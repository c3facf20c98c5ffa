// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package versions lists the versions an import map pins next to the
// versions the local manifest declares.
package versions

import (
	"slices"
	"strings"

	"daml.com/x/importmap/pkg/importmap"
	"daml.com/x/importmap/pkg/packagejson"
	"daml.com/x/importmap/pkg/version"
	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
)

type Version struct {
	// Scope is empty for top-level imports.
	Scope string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Name  string `json:"name" yaml:"name"`
	URL   string `json:"url" yaml:"url"`
	// Version is found in the URL; Local is declared by the manifest.
	Version *semver.Version `json:"version,omitempty" yaml:"version,omitempty"`
	Local   *semver.Version `json:"local,omitempty" yaml:"local,omitempty"`
}

// Mismatch reports whether both versions are known and differ.
func (v *Version) Mismatch() bool {
	return v.Version != nil && v.Local != nil && !v.Version.Equal(v.Local)
}

type Versions []*Version

// New lists every specifier of m, top-level imports first then each scope,
// in map order.
func New(m *importmap.ImportMap, manifest *packagejson.Manifest, ws version.WorkspaceLookup, cache bool) Versions {
	var r Versions
	add := func(scope string, specifiers *importmap.Specifiers) {
		specifiers.Range(func(name, url string) bool {
			row := &Version{Scope: scope, Name: name, URL: url}
			if v, ok := version.FromURL(name, url); ok {
				row.Version, _ = semver.NewVersion(v)
			}
			if local, ok := version.Declared(name, manifest, ws, cache); ok {
				row.Local, _ = semver.NewVersion(local)
			}
			r = append(r, row)
			return true
		})
	}

	add("", m.Imports)
	m.Scopes.Range(func(scope string, specifiers *importmap.Specifiers) bool {
		add(scope, specifiers)
		return true
	})
	return r
}

func (v Versions) Mismatches() Versions {
	return lo.Filter(v, func(e *Version, _ int) bool {
		return e.Mismatch()
	})
}

func (v Versions) Copy() Versions {
	return lo.Map(v, func(e *Version, _ int) *Version {
		c := *e
		return &c
	})
}

// Sort by scope, than by name
func (v Versions) Sort() {
	slices.SortStableFunc(v, func(a, b *Version) int {
		if c := strings.Compare(a.Scope, b.Scope); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}

func (v Versions) Table() string {
	newV := v.Copy()
	newV.Sort()

	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Headers("", "SCOPE", "NAME", "VERSION", "LOCAL", "URL").
		Rows(lo.Map(newV, func(row *Version, _ int) []string {
			indicator := ""
			mapped := lo.Ternary(row.Version != nil, semverString(row.Version), "-")
			local := lo.Ternary(row.Local != nil, semverString(row.Local), "-")

			switch {
			case row.Mismatch():
				indicator = "!"
				mapped = lipgloss.NewStyle().
					Foreground(lipgloss.Color("1")).
					Bold(true).
					Render(mapped)
			case row.Local != nil:
				mapped = lipgloss.NewStyle().
					Foreground(lipgloss.Color("2")).
					Render(mapped)
			default:
				mapped = lipgloss.NewStyle().
					Faint(true).
					Italic(true).
					Render(mapped)
			}

			return []string{
				indicator,
				row.Scope,
				row.Name,
				mapped,
				local,
				row.URL,
			}
		})...).
		String()
}

func semverString(v *semver.Version) string {
	if v == nil {
		return ""
	}
	return v.String()
}
