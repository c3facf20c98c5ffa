// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package scripts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"daml.com/x/importmap/pkg/importmap"
)

// Tag describes a <script> or <link> element whose URL is computed like an
// import map entry.
type Tag struct {
	importmap.NamedImport

	// Group collapses every script of the same group into a single module script.
	Group string
	Text  string
	Href  string
	Rel   string
	// Attributes holds every other HTML attribute, in declaration order.
	Attributes *importmap.Ordered[string]
}

// IsLink reports whether the tag renders as a <link>.
func (t *Tag) IsLink() bool {
	return t.Rel != "" || t.Href != ""
}

var importFields = []string{"name", "version", "separator", "domain", "base", "index", "src"}

func (t *Tag) UnmarshalJSON(data []byte) error {
	fields := importmap.NewOrdered[json.RawMessage]()
	if err := json.Unmarshal(data, fields); err != nil {
		return err
	}

	var named importmap.NamedImport
	if err := json.Unmarshal(data, &named); err != nil {
		return err
	}
	*t = Tag{NamedImport: named, Attributes: importmap.NewOrdered[string]()}

	var err error
	fields.Range(func(key string, raw json.RawMessage) bool {
		if slices.Contains(importFields, key) {
			return true
		}
		var value string
		if value, err = attributeValue(raw); err != nil {
			err = fmt.Errorf("attribute %q: %w", key, err)
			return false
		}
		switch key {
		case "group":
			t.Group = value
		case "text":
			t.Text = value
		case "href":
			t.Href = value
		case "rel":
			t.Rel = value
		default:
			t.Attributes.Set(key, value)
		}
		return true
	})
	return err
}

func attributeValue(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch v.(type) {
	case bool, float64:
		return string(raw), nil
	}
	return "", fmt.Errorf("unsupported value %s", string(raw))
}

func (t Tag) MarshalJSON() ([]byte, error) {
	out := importmap.NewOrdered[any]()
	set := func(k, v string) {
		if v != "" {
			out.Set(k, v)
		}
	}
	set("name", t.Name)
	set("version", t.Version)
	set("separator", t.Separator)
	set("domain", t.Domain)
	set("base", t.Base)
	set("index", t.Index)
	set("src", t.Src)
	set("group", t.Group)
	set("rel", t.Rel)
	set("href", t.Href)
	t.Attributes.Range(func(k, v string) bool {
		out.Set(k, v)
		return true
	})
	set("text", t.Text)
	return json.Marshal(out)
}
