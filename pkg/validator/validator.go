// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package validator checks a generated import map against the dependency
// versions a manifest declares.
package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"daml.com/x/importmap/pkg/diagnostics"
	"daml.com/x/importmap/pkg/importmap"
	"daml.com/x/importmap/pkg/packagejson"
	"daml.com/x/importmap/pkg/version"
	"github.com/Masterminds/semver/v3"
	"github.com/samber/lo"
)

var ErrVersionMismatch = errors.New("version mismatch")

// VersionMismatchError names the local version of a package and the
// distinct import map versions that contradict it.
type VersionMismatchError struct {
	Package  string
	Local    string
	Versions []string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("local '%s' and import map version(s) '%s' do not match for package '%s'",
		e.Local, strings.Join(e.Versions, ", "), e.Package)
}

func (e *VersionMismatchError) Unwrap() error {
	return ErrVersionMismatch
}

type TransformContext struct {
	Manifest *packagejson.Manifest
	Strict   bool
	Debug    bool
}

// TransformFunc post-processes a validated map.
type TransformFunc func(m *importmap.ImportMap, ctx TransformContext) (*importmap.ImportMap, error)

type Options struct {
	Manifest *packagejson.Manifest
	// Scope selects the scopes of the map that apply to this package. It is
	// a regular expression matched against scope paths, or a plain substring
	// when it does not compile. Defaults to the manifest's runtime scope.
	Scope  string
	Strict bool
	Debug  bool
	// NoCache forces workspace lookups to rescan.
	NoCache   bool
	Transform TransformFunc
	Workspace version.WorkspaceLookup
	Reporter  diagnostics.Reporter
}

// Validate compares, for every top-level import of m that the manifest
// declares, the version found in its URL (or in the applicable scopes) with
// the declared version. Mismatches fail in strict mode and are reported
// otherwise.
func Validate(m *importmap.ImportMap, opts Options) (*importmap.ImportMap, error) {
	v := &validator{
		m:     m,
		opts:  opts,
		scope: scopeMatcher(lo.Ternary(opts.Scope != "", opts.Scope, opts.Manifest.Runtime().Scope)),
	}

	var err error
	m.Imports.Range(func(name, url string) bool {
		err = v.check(name, url)
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	if opts.Transform == nil {
		return m, nil
	}
	return opts.Transform(m, TransformContext{Manifest: opts.Manifest, Strict: opts.Strict, Debug: opts.Debug})
}

type validator struct {
	m     *importmap.ImportMap
	opts  Options
	scope func(path string) bool
}

func (v *validator) check(name, url string) error {
	declared, ok := v.opts.Manifest.Dependency(name)
	if !ok || declared == "" {
		return nil
	}
	local, ok := version.Declared(name, v.opts.Manifest, v.opts.Workspace, !v.opts.NoCache)
	if !ok {
		diagnostics.Debug(v.opts.Reporter, "skipping validation, declared version is not a semantic version", "package", name, "declared", declared)
		return nil
	}

	var scoped, invalidScopes []string
	valid := 0
	v.m.Scopes.Range(func(path string, specifiers *importmap.Specifiers) bool {
		if !v.scope(path) {
			return true
		}
		scopedURL, ok := specifiers.Get(name)
		if !ok {
			return true
		}
		sv, ok := version.FromURL(name, scopedURL)
		if !ok {
			return true
		}
		scoped = append(scoped, sv)
		if sameVersion(sv, local) {
			valid++
		} else {
			invalidScopes = append(invalidScopes, path)
		}
		return true
	})
	scoped = lo.Uniq(scoped)

	if valid > 0 && len(invalidScopes) == 0 {
		return nil
	}

	top, hasTop := version.FromURL(name, url)
	if len(invalidScopes) == 0 && (!hasTop || sameVersion(top, local)) {
		return nil
	}

	if len(scoped) > 1 && len(invalidScopes) > 0 {
		diagnostics.Warn(v.opts.Reporter, "several scopes match the module scope with different versions",
			"package", name, "scopes", strings.Join(invalidScopes, ", "))
	}

	found := scoped
	if hasTop {
		found = append(found, top)
	}
	mismatch := &VersionMismatchError{
		Package: name,
		Local:   local,
		Versions: lo.Filter(lo.Uniq(found), func(f string, _ int) bool {
			return !sameVersion(f, local)
		}),
	}
	if v.opts.Strict {
		return mismatch
	}
	diagnostics.Warn(v.opts.Reporter, mismatch.Error())
	return nil
}

func sameVersion(a, b string) bool {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return va.Equal(vb)
}

func scopeMatcher(scope string) func(string) bool {
	if scope == "" {
		return func(string) bool { return false }
	}
	re, err := regexp.Compile(scope)
	if err != nil {
		return func(path string) bool { return strings.Contains(path, scope) }
	}
	return re.MatchString
}
