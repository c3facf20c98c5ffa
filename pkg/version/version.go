// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"regexp"

	"daml.com/x/importmap/pkg/diagnostics"
	"daml.com/x/importmap/pkg/importmap"
	"daml.com/x/importmap/pkg/packagejson"
	"github.com/Masterminds/semver/v3"
)

var (
	workspaceRegex = regexp.MustCompile(`^workspace:?`)
	absoluteRegex  = regexp.MustCompile(`(\d+\.\d+\.\d+)`)
)

// IsWorkspace reports whether v refers to a package of the local workspace (e.g. "workspace:^").
func IsWorkspace(v string) bool {
	return workspaceRegex.MatchString(v)
}

// ExtractAbsoluteVersion returns the first X.Y.Z found in v.
func ExtractAbsoluteVersion(v string) (string, bool) {
	m := absoluteRegex.FindString(v)
	if m == "" {
		return "", false
	}
	if _, err := semver.StrictNewVersion(m); err != nil {
		return "", false
	}
	return m, true
}

// AbsoluteOrRaw is ExtractAbsoluteVersion falling back to v itself.
func AbsoluteOrRaw(v string) string {
	if abs, ok := ExtractAbsoluteVersion(v); ok {
		return abs
	}
	return v
}

// FromURL returns the X.Y.Z version following "name@" in url.
func FromURL(name, url string) (string, bool) {
	re, err := regexp.Compile(regexp.QuoteMeta(name) + `@(\d+\.\d+\.\d+)`)
	if err != nil {
		return "", false
	}
	m := re.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// WorkspaceLookup finds the version of a package living in the local workspace.
type WorkspaceLookup interface {
	// Version returns the version of name. cache=false forces a fresh scan.
	Version(name string, cache bool) (string, bool)
}

type Options struct {
	// Version is the coerced version of the entry, empty when it has to be inferred.
	Version string
	// Entry is the entry as written, before coercion.
	Entry    importmap.Entry
	Manifest *packagejson.Manifest
	Cache    bool
	Debug    bool
	// Reporter receives workspace misses.
	Reporter diagnostics.Reporter
}

// Hook resolves the version of a dependency. Returning false leaves the
// coerced version in place.
type Hook interface {
	ResolveVersion(name string, opts Options) (string, bool)
}

type HookFunc func(name string, opts Options) (string, bool)

func (f HookFunc) ResolveVersion(name string, opts Options) (string, bool) {
	return f(name, opts)
}

// Resolver is the default Hook.
//
// An explicit version wins, unless it is a workspace reference, in which case
// the workspace is asked (falling back to the reference itself). Without an
// explicit version the manifest dependency is used the same way, reduced to
// its X.Y.Z part when it has one.
type Resolver struct {
	workspace WorkspaceLookup
}

// NewResolver returns a resolver; ws may be nil when there is no workspace.
func NewResolver(ws WorkspaceLookup) *Resolver {
	return &Resolver{workspace: ws}
}

func (r *Resolver) ResolveVersion(name string, opts Options) (string, bool) {
	if opts.Version != "" {
		if IsWorkspace(opts.Version) {
			return r.fromWorkspace(name, opts.Version, opts), true
		}
		return opts.Version, true
	}

	declared, ok := opts.Manifest.Dependency(name)
	if !ok || declared == "" {
		return "", false
	}
	if IsWorkspace(declared) {
		return r.fromWorkspace(name, declared, opts), true
	}
	return AbsoluteOrRaw(declared), true
}

// fromWorkspace falls back to marker on a miss. Misses of a workspace are
// reported by the workspace itself.
func (r *Resolver) fromWorkspace(name, marker string, opts Options) string {
	if r.workspace == nil {
		diagnostics.Warn(diagnostics.OrDefault(opts.Reporter), "no workspace to resolve version from", "name", name, "version", marker)
		return marker
	}
	if v, ok := r.workspace.Version(name, opts.Cache); ok {
		return AbsoluteOrRaw(v)
	}
	return marker
}

// Declared resolves the version a manifest declares for name down to X.Y.Z,
// following workspace references. It returns false when that is not possible.
func Declared(name string, manifest *packagejson.Manifest, ws WorkspaceLookup, cache bool) (string, bool) {
	declared, ok := manifest.Dependency(name)
	if !ok {
		return "", false
	}
	v, _ := NewResolver(ws).ResolveVersion(name, Options{Version: declared, Cache: cache, Reporter: diagnostics.Discard})
	return ExtractAbsoluteVersion(v)
}
