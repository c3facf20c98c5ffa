// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package packagejson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"daml.com/x/importmap/pkg/importmap"
	"daml.com/x/importmap/pkg/scripts"
)

const Filename = "package.json"

type Manifest struct {
	Name                string               `json:"name,omitempty"`
	Version             string               `json:"version,omitempty"`
	Repository          *Repository          `json:"repository,omitempty"`
	Dependencies        map[string]string    `json:"dependencies,omitempty"`
	RuntimeDependencies *RuntimeDependencies `json:"runtimeDependencies,omitempty"`

	// AbsolutePath is the path the manifest was read from, if any.
	AbsolutePath string `json:"-"`
}

// RuntimeDependencies is the block a package uses to describe what it needs
// loaded in the browser next to it.
type RuntimeDependencies struct {
	Map     *importmap.Template `json:"map,omitempty"`
	Imports *importmap.Imports  `json:"imports,omitempty"`
	Scopes  *importmap.Scopes   `json:"scopes,omitempty"`
	// Scope is the default module scope used when validating a generated map.
	Scope   string        `json:"scope,omitempty"`
	Scripts []scripts.Tag `json:"scripts,omitempty"`
}

type Repository struct {
	Type      string `json:"type,omitempty"`
	URL       string `json:"url,omitempty"`
	Directory string `json:"directory,omitempty"`
}

// UnmarshalJSON also accepts the shorthand string form ("github:org/repo").
func (r *Repository) UnmarshalJSON(data []byte) error {
	if d := bytes.TrimSpace(data); len(d) > 0 && d[0] == '"' {
		return json.Unmarshal(d, &r.URL)
	}
	type plain Repository
	return json.Unmarshal(data, (*plain)(r))
}

// Dependency returns the declared version range of name.
func (m *Manifest) Dependency(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.Dependencies[name]
	return v, ok
}

// Runtime never returns nil.
func (m *Manifest) Runtime() *RuntimeDependencies {
	if m == nil || m.RuntimeDependencies == nil {
		return &RuntimeDependencies{}
	}
	return m.RuntimeDependencies
}

// HasImports reports whether the manifest declares anything for the import map.
func (r *RuntimeDependencies) HasImports() bool {
	return r != nil && (!r.Map.IsEmpty() || r.Imports.Len() > 0 || r.Scopes.Len() > 0)
}

// Template returns the flat imports and scopes as a template.
func (r *RuntimeDependencies) Template() *importmap.Template {
	t := importmap.NewTemplate()
	if r == nil {
		return t
	}
	if r.Imports != nil {
		t.Imports = r.Imports.Clone()
	}
	r.Scopes.Range(func(scope string, imports *importmap.Imports) bool {
		t.Scopes.Set(scope, imports.Clone())
		return true
	})
	return t
}

func Read(path string) (*Manifest, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ReadFromContents(contents)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	m.AbsolutePath = path
	return m, nil
}

func ReadFromContents(contents []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(contents, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
