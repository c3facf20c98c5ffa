// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package inject holds the HTML transforms that put a generated import map
// and its companion script tags into a document.
package inject

import (
	"context"
	"fmt"

	"daml.com/x/importmap/pkg/config"
	"daml.com/x/importmap/pkg/diagnostics"
	"daml.com/x/importmap/pkg/generator"
	"daml.com/x/importmap/pkg/htmldoc"
	"daml.com/x/importmap/pkg/importmap"
	"daml.com/x/importmap/pkg/jsonfile"
	"daml.com/x/importmap/pkg/packagejson"
	"daml.com/x/importmap/pkg/scripts"
	"daml.com/x/importmap/pkg/validator"
	"daml.com/x/importmap/pkg/version"
	"github.com/samber/lo"
)

// Transform mutates an HTML document.
type Transform func(ctx context.Context, html string) (string, error)

// Chain runs transforms in order, each one on the output of the previous.
func Chain(transforms ...Transform) Transform {
	return func(ctx context.Context, html string) (string, error) {
		var err error
		for _, t := range transforms {
			if html, err = t(ctx, html); err != nil {
				return "", err
			}
		}
		return html, nil
	}
}

type ImportMapOptions struct {
	// ID is set on the script element when a new one is inserted.
	ID      string
	Imports *importmap.Imports
	// Map seeds the generated map with the highest priority.
	Map    *importmap.Template
	Domain string
	// Scope selects the scopes the validator checks. Defaults to the
	// manifest's runtime scope.
	Scope    string
	Manifest *packagejson.Manifest

	TransformMap validator.TransformFunc

	Strict  bool
	Debug   bool
	NoCache bool

	Write  config.Write
	Indent string
	// Writer persists the map in the background when set; otherwise the map
	// is written before the transform returns.
	Writer *jsonfile.Writer

	Workspace version.WorkspaceLookup
	Reporter  diagnostics.Reporter
}

// ImportMap generates the import map and puts it into the document: the map
// already in the document, if any, is merged in with the lowest priority and
// replaced in place; otherwise a new script is inserted before the first
// script of the head.
func ImportMap(opts ImportMapOptions) Transform {
	id := lo.Ternary(opts.ID != "", opts.ID, config.DefaultID)
	indent := lo.Ternary(opts.Indent != "", opts.Indent, config.DefaultIndent)
	reporter := diagnostics.OrDefault(opts.Reporter)

	return func(ctx context.Context, html string) (string, error) {
		existing, err := htmldoc.ExtractMap(html)
		if err != nil {
			return "", err
		}
		if opts.Debug && existing.Found {
			diagnostics.Debug(reporter, "existing import map found", "imports", existing.Template.Imports.Keys())
		}
		if opts.Debug && !opts.Manifest.Runtime().Map.IsEmpty() {
			diagnostics.Debug(reporter, "package import map found", "package", opts.Manifest.Name)
		}

		generated, err := generator.GenerateInferVersion(opts.Imports, opts.Map, generator.Options{
			Domain:    opts.Domain,
			Manifest:  opts.Manifest,
			Base:      existing.Template,
			NoCache:   opts.NoCache,
			Debug:     opts.Debug,
			Workspace: opts.Workspace,
			Reporter:  reporter,
		})
		if err != nil {
			return "", err
		}

		m, err := validator.Validate(generated, validator.Options{
			Manifest:  opts.Manifest,
			Scope:     opts.Scope,
			Strict:    opts.Strict,
			Debug:     opts.Debug,
			NoCache:   opts.NoCache,
			Transform: opts.TransformMap,
			Workspace: opts.Workspace,
			Reporter:  reporter,
		})
		if err != nil {
			return "", err
		}

		if path, ok := opts.Write.Target(); ok {
			persist(ctx, opts.Writer, reporter, path, m, indent)
		}

		data, err := jsonfile.Marshal(m, indent)
		if err != nil {
			return "", err
		}
		text := "\n" + string(data)

		if existing.Found {
			if opts.Debug {
				diagnostics.Debug(reporter, "replacing existing import map")
			}
			return htmldoc.ReplaceSpan(html, text, existing.Start, existing.End)
		}

		index, ok := htmldoc.FindInsertionPoint(html)
		if !ok {
			return "", htmldoc.ErrNoHead
		}
		if opts.Debug {
			diagnostics.Debug(reporter, "injecting import map", "index", index)
		}
		return htmldoc.InsertAt(html, fmt.Sprintf("\n<script id=\"%s\" type=\"importmap\">%s</script>\n", id, text), index)
	}
}

func persist(ctx context.Context, w *jsonfile.Writer, reporter diagnostics.Reporter, path string, m *importmap.ImportMap, indent string) {
	if w != nil {
		w.WriteAsync(ctx, path, m, indent)
		return
	}
	if err := jsonfile.Write(ctx, path, m, indent); err != nil {
		diagnostics.Error(reporter, "failed to write import map to file", "path", path, "err", err)
		return
	}
	diagnostics.Debug(reporter, "import map written", "path", path)
}

// TransformScripts post-processes the tags before they are merged.
type TransformScripts func(tags []scripts.Tag) ([]scripts.Tag, error)

type ScriptsOptions struct {
	ID       string
	Scripts  []scripts.Tag
	Domain   string
	Manifest *packagejson.Manifest

	TransformScripts TransformScripts
	Debug            bool
	Reporter         diagnostics.Reporter
}

// Scripts renders the manifest's runtime scripts followed by opts.Scripts
// right before the closing head tag. Grouped scripts are merged into one
// module script per group.
func Scripts(opts ScriptsOptions) Transform {
	id := lo.Ternary(opts.ID != "", opts.ID, config.DefaultID)
	reporter := diagnostics.OrDefault(opts.Reporter)

	return func(_ context.Context, html string) (string, error) {
		runtime := opts.Manifest.Runtime().Scripts
		if opts.Debug && len(runtime) > 0 {
			diagnostics.Debug(reporter, "package scripts found", "count", len(runtime))
		}

		tags := make([]scripts.Tag, 0, len(runtime)+len(opts.Scripts))
		tags = append(tags, runtime...)
		tags = append(tags, opts.Scripts...)

		if opts.TransformScripts != nil {
			var err error
			if tags, err = opts.TransformScripts(tags); err != nil {
				return "", err
			}
		}
		tags = lo.Map(tags, func(t scripts.Tag, _ int) scripts.Tag {
			if t.Domain == "" {
				t.Domain = opts.Domain
			}
			return t
		})

		if len(tags) == 0 {
			if opts.Debug {
				diagnostics.Warn(reporter, "no scripts found")
			}
			return html, nil
		}
		if opts.Debug {
			diagnostics.Debug(reporter, "injecting scripts", "count", len(tags))
		}
		return scripts.Inject(html, tags, id)
	}
}

// PluginOptions configures both transforms at once.
type PluginOptions struct {
	ID               string
	Imports          *importmap.Imports
	Map              *importmap.Template
	TransformMap     validator.TransformFunc
	Scripts          []scripts.Tag
	TransformScripts TransformScripts
	Domain           config.Domain
	Scope            string
	Manifest         *packagejson.Manifest

	Strict  bool
	Debug   bool
	NoCache bool
	Write   config.Write
	Indent  string
	Writer  *jsonfile.Writer

	Workspace version.WorkspaceLookup
	Reporter  diagnostics.Reporter
}

// Plugin runs the import map transform when there is anything to map and
// the scripts transform when there are scripts. An explicit ID is suffixed
// per transform.
func Plugin(opts PluginOptions) Transform {
	runtime := opts.Manifest.Runtime()
	suffixed := func(suffix string) string {
		return lo.Ternary(opts.ID != "", opts.ID+suffix, "")
	}

	var transforms []Transform
	if opts.Imports.Len() > 0 || !opts.Map.IsEmpty() || runtime.HasImports() {
		transforms = append(transforms, ImportMap(ImportMapOptions{
			ID:           suffixed(config.ImportMapIDSuffix),
			Imports:      opts.Imports,
			Map:          opts.Map,
			Domain:       opts.Domain.Map,
			Scope:        opts.Scope,
			Manifest:     opts.Manifest,
			TransformMap: opts.TransformMap,
			Strict:       opts.Strict,
			Debug:        opts.Debug,
			NoCache:      opts.NoCache,
			Write:        opts.Write,
			Indent:       opts.Indent,
			Writer:       opts.Writer,
			Workspace:    opts.Workspace,
			Reporter:     opts.Reporter,
		}))
	}
	if len(opts.Scripts) > 0 || len(runtime.Scripts) > 0 {
		transforms = append(transforms, Scripts(ScriptsOptions{
			ID:               suffixed(config.ScriptsIDSuffix),
			Scripts:          opts.Scripts,
			Domain:           opts.Domain.Scripts,
			Manifest:         opts.Manifest,
			TransformScripts: opts.TransformScripts,
			Debug:            opts.Debug,
			Reporter:         opts.Reporter,
		}))
	}
	return Chain(transforms...)
}
