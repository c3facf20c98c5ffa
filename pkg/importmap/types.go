// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package importmap

import (
	"encoding/json"
)

type (
	// Imports maps a specifier to an unresolved Entry.
	Imports = Ordered[Entry]
	// Scopes maps a scope path (URL prefix) to its Imports.
	Scopes = Ordered[*Imports]

	// Specifiers maps a specifier to its final URL.
	Specifiers = Ordered[string]
	// ScopedSpecifiers maps a scope path to its resolved Specifiers.
	ScopedSpecifiers = Ordered[*Specifiers]
)

func NewImports() *Imports {
	return NewOrdered[Entry]()
}

func NewScopes() *Scopes {
	return NewOrdered[*Imports]()
}

// Template is the unresolved form of an import map.
type Template struct {
	Imports *Imports `json:"imports"`
	Scopes  *Scopes  `json:"scopes,omitempty"`
}

func NewTemplate() *Template {
	return &Template{Imports: NewImports(), Scopes: NewScopes()}
}

func (t *Template) IsEmpty() bool {
	return t == nil || (t.Imports.Len() == 0 && t.Scopes.Len() == 0)
}

// Clone copies the template down to the scope level. Entries are values.
func (t *Template) Clone() *Template {
	c := NewTemplate()
	if t == nil {
		return c
	}
	c.Imports = t.Imports.Clone()
	t.Scopes.Range(func(scope string, imports *Imports) bool {
		c.Scopes.Set(scope, imports.Clone())
		return true
	})
	return c
}

func (t *Template) MarshalJSON() ([]byte, error) {
	type wire struct {
		Imports *Imports `json:"imports"`
		Scopes  *Scopes  `json:"scopes,omitempty"`
	}
	w := wire{Imports: t.Imports, Scopes: t.Scopes}
	if w.Imports == nil {
		w.Imports = NewImports()
	}
	if w.Scopes.Len() == 0 {
		w.Scopes = nil
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads an import map document. Bare string values in such a
// document are final URLs and are kept as URL entries.
func (t *Template) UnmarshalJSON(data []byte) error {
	type wire struct {
		Imports *Imports `json:"imports"`
		Scopes  *Scopes  `json:"scopes"`
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t.Imports = pinURLs(w.Imports)
	t.Scopes = NewScopes()
	w.Scopes.Range(func(scope string, imports *Imports) bool {
		t.Scopes.Set(scope, pinURLs(imports))
		return true
	})
	return nil
}

func pinURLs(imports *Imports) *Imports {
	r := NewImports()
	imports.Range(func(name string, e Entry) bool {
		if e.Kind() == VersionEntry {
			e = URLOf(e.Value())
		}
		r.Set(name, e)
		return true
	})
	return r
}

// ImportMap is the resolved form: every value is a final URL.
type ImportMap struct {
	Imports *Specifiers       `json:"imports"`
	Scopes  *ScopedSpecifiers `json:"scopes,omitempty"`
}

func New() *ImportMap {
	return &ImportMap{Imports: NewOrdered[string](), Scopes: NewOrdered[*Specifiers]()}
}

func (m *ImportMap) Clone() *ImportMap {
	c := New()
	if m == nil {
		return c
	}
	c.Imports = m.Imports.Clone()
	m.Scopes.Range(func(scope string, specifiers *Specifiers) bool {
		c.Scopes.Set(scope, specifiers.Clone())
		return true
	})
	return c
}

// Scope returns the specifiers of scope, or nil.
func (m *ImportMap) Scope(scope string) *Specifiers {
	if m == nil {
		return nil
	}
	s, _ := m.Scopes.Get(scope)
	return s
}

// Template lifts a resolved map back into template form, every value a URL entry.
func (m *ImportMap) Template() *Template {
	t := NewTemplate()
	if m == nil {
		return t
	}
	m.Imports.Range(func(name, url string) bool {
		t.Imports.Set(name, URLOf(url))
		return true
	})
	m.Scopes.Range(func(scope string, specifiers *Specifiers) bool {
		imports := NewImports()
		specifiers.Range(func(name, url string) bool {
			imports.Set(name, URLOf(url))
			return true
		})
		t.Scopes.Set(scope, imports)
		return true
	})
	return t
}

func (m *ImportMap) MarshalJSON() ([]byte, error) {
	type wire struct {
		Imports *Specifiers       `json:"imports"`
		Scopes  *ScopedSpecifiers `json:"scopes,omitempty"`
	}
	w := wire{Imports: m.Imports, Scopes: m.Scopes}
	if w.Imports == nil {
		w.Imports = NewOrdered[string]()
	}
	if w.Scopes.Len() == 0 {
		w.Scopes = nil
	}
	return json.Marshal(w)
}

func (m *ImportMap) UnmarshalJSON(data []byte) error {
	type wire struct {
		Imports *Specifiers       `json:"imports"`
		Scopes  *ScopedSpecifiers `json:"scopes"`
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.Imports = w.Imports
	if m.Imports == nil {
		m.Imports = NewOrdered[string]()
	}
	m.Scopes = w.Scopes
	if m.Scopes == nil {
		m.Scopes = NewOrdered[*Specifiers]()
	}
	return nil
}
