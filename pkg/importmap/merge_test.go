// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package importmap

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func template(imports ...Pair[Entry]) *Template {
	t := NewTemplate()
	t.Imports = OrderedOf(imports...)
	return t
}

func withScope(t *Template, scope string, imports ...Pair[Entry]) *Template {
	t.Scopes.Set(scope, OrderedOf(imports...))
	return t
}

func flatten(t *Template) map[string]string {
	r := map[string]string{}
	t.Imports.Range(func(k string, e Entry) bool {
		r[k] = e.String()
		return true
	})
	t.Scopes.Range(func(scope string, imports *Imports) bool {
		imports.Range(func(k string, e Entry) bool {
			r[scope+"|"+k] = e.String()
			return true
		})
		return true
	})
	return r
}

func TestMergeDestructiveDisjointIsUnion(t *testing.T) {
	a := withScope(template(P("a", VersionOf("1.0.0"))), "/s/", P("x", VersionOf("1.0.0")))
	b := withScope(template(P("b", VersionOf("2.0.0"))), "/t/", P("y", VersionOf("2.0.0")))

	ab := MergeDestructive(a, b)
	ba := MergeDestructive(b, a)

	assert.Equal(t, flatten(ab), flatten(ba))
	assert.Equal(t, map[string]string{
		"a":     "1.0.0",
		"b":     "2.0.0",
		"/s/|x": "1.0.0",
		"/t/|y": "2.0.0",
	}, flatten(ab))
}

func TestMergeDestructiveLastWriteWins(t *testing.T) {
	a := withScope(template(P("k", VersionOf("1.0.0")), P("other", VersionOf("1.0.0"))), "/s/", P("k", VersionOf("1.0.0")), P("z", VersionOf("9.0.0")))
	b := withScope(template(P("k", ImportOf(Import{Version: "2.0.0", Base: "kay"}))), "/s/", P("k", VersionOf("3.0.0")))

	merged := MergeDestructive(a, b)

	k, _ := merged.Imports.Get("k")
	assert.Equal(t, ImportOf(Import{Version: "2.0.0", Base: "kay"}), k)
	assert.Equal(t, []string{"k", "other"}, merged.Imports.Keys())

	scope, _ := merged.Scopes.Get("/s/")
	sk, _ := scope.Get("k")
	assert.Equal(t, "3.0.0", sk.Value())
	assert.True(t, scope.Has("z"))
}

func TestMergeDestructiveDoesNotModifyInputs(t *testing.T) {
	a := withScope(template(P("k", VersionOf("1.0.0"))), "/s/", P("k", VersionOf("1.0.0")))
	b := withScope(template(P("k", VersionOf("2.0.0"))), "/s/", P("k", VersionOf("2.0.0")))

	_ = MergeDestructive(a, nil, b)

	k, _ := a.Imports.Get("k")
	assert.Equal(t, "1.0.0", k.Value())
	scope, _ := a.Scopes.Get("/s/")
	sk, _ := scope.Get("k")
	assert.Equal(t, "1.0.0", sk.Value())
}

func TestMergeImportsFieldWise(t *testing.T) {
	a := OrderedOf(
		P("dep", ImportOf(Import{Version: "1.0.0", Domain: "https://a", Index: "main.js"})),
		P("bare", VersionOf("1.0.0")),
	)
	b := OrderedOf(
		P("dep", ImportOf(Import{Domain: "https://b"})),
		P("bare", ImportOf(Import{Base: "bare-pkg"})),
		P("url", URLOf("https://u")),
	)

	merged := MergeImports(a, b)

	dep, _ := merged.Get("dep")
	assert.Equal(t, Import{Version: "1.0.0", Domain: "https://b", Index: "main.js"}, dep.Import())
	bare, _ := merged.Get("bare")
	assert.Equal(t, Import{Version: "1.0.0", Base: "bare-pkg"}, bare.Import())
	u, _ := merged.Get("url")
	assert.Equal(t, URLEntry, u.Kind())
}

func resolved(imports ...Pair[string]) *ImportMap {
	m := New()
	m.Imports = OrderedOf(imports...)
	return m
}

func TestMergeByScopeSharesAgreeingImports(t *testing.T) {
	merged, err := MergeByScope([]ScopedMap{
		{Scope: "/a/", Map: resolved(P("dep", "https://d/dep@1.0.0"))},
		{Scope: "/b/", Map: resolved(P("dep", "https://d/dep@1.0.0"), P("other", "https://d/other@1.0.0"))},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://d/dep@1.0.0", lookup(t, merged.Imports, "dep"))
	assert.Equal(t, "https://d/other@1.0.0", lookup(t, merged.Imports, "other"))
	assert.Equal(t, 0, merged.Scopes.Len())
}

func TestMergeByScopeDemotesDifferingImport(t *testing.T) {
	merged, err := MergeByScope([]ScopedMap{
		{Scope: "/entry1/", Map: resolved(P("dep", "https://d/dep@1.0.0"))},
		{Scope: "/entry2/", Map: resolved(P("dep", "https://d/dep@2.0.0"))},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://d/dep@1.0.0", lookup(t, merged.Imports, "dep"))
	assert.Equal(t, "https://d/dep@2.0.0", lookup(t, merged.Scope("/entry2/"), "dep"))
	assert.Nil(t, merged.Scope("/entry1/"))
}

func TestMergeByScopeImportConflict(t *testing.T) {
	_, err := MergeByScope([]ScopedMap{
		{Scope: "/entry1/", Map: resolved(P("dep", "https://d/dep@1.0.0"))},
		{Scope: "/entry2/", Map: resolved(P("dep", "https://d/dep@2.0.0"))},
		{Scope: "/entry2/", Map: resolved(P("dep", "https://d/dep@3.0.0"))},
	}, nil)

	var conflict *ImportConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "dep", conflict.Dep)
	assert.Equal(t, "/entry2/", conflict.Scope)
	assert.ErrorIs(t, err, ErrImportConflict)
}

func TestMergeByScopeAgainstScopedOverrideFromBase(t *testing.T) {
	base := resolved(P("dep", "https://d/dep@1.0.0"))
	base.Scopes.Set("/entry/", OrderedOf(P("dep", "https://d/dep@2.0.0")))

	_, err := MergeByScope([]ScopedMap{
		{Scope: "/entry/", Map: resolved(P("dep", "https://d/dep@3.0.0"))},
	}, base)

	var conflict *ImportConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "https://d/dep@2.0.0", conflict.Existing)
	assert.Equal(t, "https://d/dep@3.0.0", conflict.Incoming)
}

func TestMergeByScopeScopedEntries(t *testing.T) {
	withScoped := func(scope string, pairs ...Pair[string]) *ImportMap {
		m := New()
		m.Scopes.Set(scope, OrderedOf(pairs...))
		return m
	}

	t.Run("adopted when absent or equal", func(t *testing.T) {
		merged, err := MergeByScope([]ScopedMap{
			{Scope: "/a/", Map: withScoped("/shared/", P("dep", "https://d/dep@1.0.0"))},
			{Scope: "/b/", Map: withScoped("/shared/", P("dep", "https://d/dep@1.0.0"), P("x", "https://d/x@1.0.0"))},
		}, nil)
		require.NoError(t, err)
		keys := merged.Scope("/shared/").Keys()
		sort.Strings(keys)
		assert.Equal(t, []string{"dep", "x"}, keys)
	})

	t.Run("conflict", func(t *testing.T) {
		_, err := MergeByScope([]ScopedMap{
			{Scope: "/a/", Map: withScoped("/shared/", P("dep", "https://d/dep@1.0.0"))},
			{Scope: "/b/", Map: withScoped("/shared/", P("dep", "https://d/dep@2.0.0"))},
		}, nil)
		var conflict *ScopeConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "dep", conflict.Dep)
		assert.Equal(t, "/shared/", conflict.Scope)
	})
}

func TestMergeByScopeDoesNotModifyBase(t *testing.T) {
	base := resolved(P("dep", "https://d/dep@1.0.0"))
	_, err := MergeByScope([]ScopedMap{
		{Scope: "/e/", Map: resolved(P("dep", "https://d/dep@2.0.0"))},
	}, base)
	require.NoError(t, err)
	assert.Equal(t, 0, base.Scopes.Len())
}
