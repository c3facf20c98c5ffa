// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package importmap

// MergeDestructive merges templates left to right. Later templates overwrite
// earlier ones, per specifier at the top level and per (scope, specifier) in
// scopes. The inputs are never modified.
func MergeDestructive(partials ...*Template) *Template {
	result := NewTemplate()
	for _, p := range partials {
		if p == nil {
			continue
		}
		p.Imports.Range(func(name string, e Entry) bool {
			result.Imports.Set(name, e)
			return true
		})
		p.Scopes.Range(func(scope string, imports *Imports) bool {
			merged, ok := result.Scopes.Get(scope)
			if !ok {
				merged = NewImports()
				result.Scopes.Set(scope, merged)
			}
			imports.Range(func(name string, e Entry) bool {
				merged.Set(name, e)
				return true
			})
			return true
		})
	}
	return result
}

// MergeImports merges imports left to right field by field: a later
// structured entry only overrides the fields it sets. URL entries replace
// whatever was there.
func MergeImports(partials ...*Imports) *Imports {
	result := NewImports()
	for _, p := range partials {
		p.Range(func(name string, incoming Entry) bool {
			existing, ok := result.Get(name)
			if !ok || existing.Kind() == URLEntry || incoming.Kind() == URLEntry {
				result.Set(name, incoming)
				return true
			}
			result.Set(name, ImportOf(overlay(rawImport(existing), rawImport(incoming))))
			return true
		})
	}
	return result
}

func rawImport(e Entry) Import {
	if e.Kind() == VersionEntry {
		return Import{Version: e.Value()}
	}
	return e.Import()
}

func overlay(base, top Import) Import {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.Version, top.Version)
	set(&base.Separator, top.Separator)
	set(&base.Domain, top.Domain)
	set(&base.Base, top.Base)
	set(&base.Index, top.Index)
	set(&base.Src, top.Src)
	return base
}

// ScopedMap is a resolved import map contributed under a scope path,
// typically one per bundled package.
type ScopedMap struct {
	Scope string
	Map   *ImportMap
}

// MergeByScope merges resolved maps without ever silently replacing a URL.
//
// Scoped imports of each entry are adopted unless the scope already maps
// the specifier elsewhere (ScopeConflictError). A top-level import is shared
// while every entry agrees; a differing URL is moved into the entry's own
// scope, unless that scope already maps the specifier to yet another URL
// (ImportConflictError).
func MergeByScope(entries []ScopedMap, base *ImportMap) (*ImportMap, error) {
	result := base.Clone()

	for _, entry := range entries {
		var err error

		entry.Map.Scopes.Range(func(scope string, specifiers *Specifiers) bool {
			target := result.scopeFor(scope)
			specifiers.Range(func(dep, url string) bool {
				existing, ok := target.Get(dep)
				if !ok {
					target.Set(dep, url)
					return true
				}
				if existing != url {
					err = &ScopeConflictError{Dep: dep, Scope: scope, Existing: existing, Incoming: url}
					return false
				}
				return true
			})
			return err == nil
		})
		if err != nil {
			return nil, err
		}

		entry.Map.Imports.Range(func(dep, url string) bool {
			existing, ok := result.Imports.Get(dep)
			if !ok || existing == url {
				result.Imports.Set(dep, url)
				return true
			}
			scoped := result.scopeFor(entry.Scope)
			override, ok := scoped.Get(dep)
			if ok && override != url {
				err = &ImportConflictError{Dep: dep, Scope: entry.Scope, Existing: override, Incoming: url}
				return false
			}
			scoped.Set(dep, url)
			return true
		})
		if err != nil {
			return nil, err
		}
	}

	dropEmptyScopes(result)
	return result, nil
}

func (m *ImportMap) scopeFor(scope string) *Specifiers {
	s, ok := m.Scopes.Get(scope)
	if !ok {
		s = NewOrdered[string]()
		m.Scopes.Set(scope, s)
	}
	return s
}

func dropEmptyScopes(m *ImportMap) {
	for _, scope := range m.Scopes.Keys() {
		if s, _ := m.Scopes.Get(scope); s.Len() == 0 {
			m.Scopes.Delete(scope)
		}
	}
}
