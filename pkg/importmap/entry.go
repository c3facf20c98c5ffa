// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package importmap

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Infer is the version placeholder asking for the version to be looked up
// (manifest dependencies or workspace) instead of taken literally.
const Infer = "infer"

// Import describes how the URL of one dependency is built.
type Import struct {
	Version   string `json:"version,omitempty"`
	Separator string `json:"separator,omitempty"`
	Domain    string `json:"domain,omitempty"`
	Base      string `json:"base,omitempty"`
	Index     string `json:"index,omitempty"`
	Src       string `json:"src,omitempty"`
}

// Inferred reports whether the version still has to be resolved.
func (i Import) Inferred() bool {
	return i.Version == ""
}

// NamedImport is an Import together with the specifier it is registered under.
type NamedImport struct {
	Name string `json:"name,omitempty"`
	Import
}

type EntryKind int

const (
	// VersionEntry is a bare version string, e.g. "1.2.3", "^1.0.0", "workspace:*" or "infer".
	VersionEntry EntryKind = iota
	// URLEntry is a final URL read from an existing import map. It is never rewritten.
	URLEntry
	// ImportEntry is a structured Import.
	ImportEntry
)

func (k EntryKind) String() string {
	switch k {
	case VersionEntry:
		return "version"
	case URLEntry:
		return "url"
	case ImportEntry:
		return "import"
	}
	return fmt.Sprintf("EntryKind(%d)", int(k))
}

// Entry is the value of an imports mapping before resolution.
type Entry struct {
	kind  EntryKind
	value string
	imp   Import
}

func VersionOf(version string) Entry {
	return Entry{kind: VersionEntry, value: version}
}

func URLOf(url string) Entry {
	return Entry{kind: URLEntry, value: url}
}

func ImportOf(i Import) Entry {
	return Entry{kind: ImportEntry, imp: i}
}

func (e Entry) Kind() EntryKind {
	return e.kind
}

// Value returns the raw string of a version or URL entry.
func (e Entry) Value() string {
	return e.value
}

// Import returns the structured form as written, without coercion.
func (e Entry) Import() Import {
	return e.imp
}

// Coerce turns the entry into an Import. A version equal to Infer is
// dropped, leaving the remaining fields untouched. URL entries become an
// Import with Src set.
func (e Entry) Coerce() Import {
	var i Import
	switch e.kind {
	case VersionEntry:
		i = Import{Version: e.value}
	case URLEntry:
		i = Import{Src: e.value}
	default:
		i = e.imp
	}
	if i.Version == Infer {
		i.Version = ""
	}
	return i
}

func (e Entry) String() string {
	if e.kind == ImportEntry {
		b, _ := json.Marshal(e.imp)
		return string(b)
	}
	return e.value
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if e.kind == ImportEntry {
		return json.Marshal(e.imp)
	}
	return json.Marshal(e.value)
}

// UnmarshalJSON reads a string as a VersionEntry and an object as an ImportEntry.
func (e *Entry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty import entry")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = VersionOf(s)
		return nil
	case '{':
		var i Import
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*e = ImportOf(i)
		return nil
	}
	return fmt.Errorf("import entry must be a string or an object, got %s", string(data))
}
