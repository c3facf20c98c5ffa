// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package generator turns import map templates into resolved import maps.
package generator

import (
	"fmt"

	"daml.com/x/importmap/pkg/diagnostics"
	"daml.com/x/importmap/pkg/importmap"
	"daml.com/x/importmap/pkg/packagejson"
	"daml.com/x/importmap/pkg/version"
)

type Options struct {
	// Domain is used for entries that don't set their own.
	Domain   string
	Manifest *packagejson.Manifest
	// Base has the lowest priority of all sources, e.g. the map already present in a document.
	Base *importmap.Template
	// NoCache forces workspace lookups to rescan.
	NoCache bool
	Debug   bool
	// VersionHook replaces the default version resolution when set.
	VersionHook version.Hook
	Workspace   version.WorkspaceLookup
	Reporter    diagnostics.Reporter
}

// Template merges every template source, lowest priority first: Base, the
// manifest's runtime map, the manifest's runtime imports and scopes, imports,
// then seed.
func Template(imports *importmap.Imports, seed *importmap.Template, opts Options) *importmap.Template {
	runtime := opts.Manifest.Runtime()
	return importmap.MergeDestructive(
		opts.Base,
		runtime.Map,
		runtime.Template(),
		&importmap.Template{Imports: imports},
		seed,
	)
}

// Generate resolves every entry of the merged template to a URL.
func Generate(imports *importmap.Imports, seed *importmap.Template, opts Options) (*importmap.ImportMap, error) {
	hook := opts.VersionHook
	if hook == nil {
		hook = version.NewResolver(opts.Workspace)
	}
	g := &generator{opts: opts, hook: hook}

	tpl := Template(imports, seed, opts)
	result := importmap.New()

	if err := g.resolveAll(tpl.Imports, result.Imports); err != nil {
		return nil, err
	}

	var err error
	tpl.Scopes.Range(func(scope string, scoped *importmap.Imports) bool {
		specifiers := importmap.NewOrdered[string]()
		if err = g.resolveAll(scoped, specifiers); err != nil {
			err = fmt.Errorf("scope '%s': %w", scope, err)
			return false
		}
		result.Scopes.Set(scope, specifiers)
		return true
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GenerateInferVersion is Generate with the default version resolution,
// whatever hook opts carries.
func GenerateInferVersion(imports *importmap.Imports, seed *importmap.Template, opts Options) (*importmap.ImportMap, error) {
	opts.VersionHook = version.NewResolver(opts.Workspace)
	return Generate(imports, seed, opts)
}

type generator struct {
	opts Options
	hook version.Hook
}

func (g *generator) resolveAll(imports *importmap.Imports, into *importmap.Specifiers) error {
	var err error
	imports.Range(func(name string, entry importmap.Entry) bool {
		var url string
		if url, err = g.resolve(name, entry); err != nil {
			return false
		}
		into.Set(name, url)
		return true
	})
	return err
}

func (g *generator) resolve(name string, entry importmap.Entry) (string, error) {
	if entry.Kind() == importmap.URLEntry {
		return entry.Value(), nil
	}

	imp := entry.Coerce()
	if imp.Src == "" {
		v, ok := g.hook.ResolveVersion(name, version.Options{
			Version:  imp.Version,
			Entry:    entry,
			Manifest: g.opts.Manifest,
			Cache:    !g.opts.NoCache,
			Debug:    g.opts.Debug,
			Reporter: g.opts.Reporter,
		})
		if ok && v != "" && v != importmap.Infer {
			imp.Version = v
		}
	}
	if imp.Domain == "" {
		imp.Domain = g.opts.Domain
	}
	if imp.Index == "" {
		imp.Index = importmap.DefaultIndex
	}

	url, err := importmap.ComputeURL(importmap.NamedImport{Name: name, Import: imp}, importmap.DefaultSeparator)
	if err != nil {
		return "", err
	}
	if g.opts.Debug {
		diagnostics.Debug(g.opts.Reporter, "resolved import", "name", name, "url", url)
	}
	return url, nil
}
