// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package scripts

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"daml.com/x/importmap/pkg/htmldoc"
	"daml.com/x/importmap/pkg/importmap"
	"github.com/samber/lo"
)

// ScriptSeparator is the separator used between name and version in script URLs.
const ScriptSeparator = "/"

// CreateTag renders the element for t. Links and ungrouped scripts get an
// href/src, explicit or computed; a grouped script carries its imports in
// its text instead.
func CreateTag(t Tag, id string) (string, error) {
	var attrs []string
	add := func(key, value string) {
		attrs = append(attrs, fmt.Sprintf(`%s="%s"`, key, html.EscapeString(value)))
	}

	if id != "" {
		add("data-id", id)
	}
	if t.Rel != "" {
		add("rel", t.Rel)
	}
	t.Attributes.Range(func(k, v string) bool {
		add(k, v)
		return true
	})
	if t.Group != "" {
		add("data-group", t.Group)
	}
	if t.Name != "" {
		add("data-name", t.Name)
	}
	if t.Version != "" {
		add("data-version", t.Version)
	}

	link := t.IsLink()
	if link || t.Group == "" {
		path := t.Src
		if link {
			path = t.Href
		}
		if path == "" {
			var err error
			if path, err = importmap.ComputeURL(t.NamedImport, ScriptSeparator); err != nil {
				return "", err
			}
		}
		if link {
			add("href", path)
		} else {
			add("src", path)
		}
	}

	if link {
		return fmt.Sprintf("<link %s />", strings.Join(attrs, " ")), nil
	}
	return fmt.Sprintf("<script %s>%s</script>", strings.Join(attrs, " "), t.Text), nil
}

// Merge keeps links and ungrouped scripts as they are and replaces every
// group with a single script importing each member, in order of first
// appearance.
func Merge(tags []Tag) ([]Tag, error) {
	grouped := func(t Tag) bool { return !t.IsLink() && t.Group != "" }

	result := lo.Reject(tags, func(t Tag, _ int) bool { return grouped(t) })
	members := lo.GroupBy(lo.Filter(tags, func(t Tag, _ int) bool { return grouped(t) }), func(t Tag) string { return t.Group })
	groups := lo.Uniq(lo.FilterMap(tags, func(t Tag, _ int) (string, bool) { return t.Group, grouped(t) }))

	for _, g := range groups {
		lines, err := importLines(members[g])
		if err != nil {
			return nil, err
		}
		merged := members[g][0]
		merged.NamedImport = importmap.NamedImport{Import: importmap.Import{Base: merged.Base}}
		merged.Text = strings.Join(lines, "\n")
		result = append(result, merged)
	}
	return result, nil
}

func importLines(members []Tag) ([]string, error) {
	lines := make([]string, 0, len(members))
	for _, m := range members {
		url, err := importmap.ComputeURL(m.NamedImport, ScriptSeparator)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf(`import "%s"`, url))
	}
	return lines, nil
}

// Render merges tags and renders every element. All rendering failures are reported together.
func Render(tags []Tag, id string) ([]string, error) {
	merged, err := Merge(tags)
	if err != nil {
		return nil, err
	}
	var errs []error
	var rendered []string
	for _, t := range merged {
		s, err := CreateTag(t, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rendered = append(rendered, s)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return rendered, nil
}

// Inject renders tags and inserts them right before </head>. Without tags
// the document is returned unchanged.
func Inject(doc string, tags []Tag, id string) (string, error) {
	rendered, err := Render(tags, id)
	if err != nil {
		return "", err
	}
	if len(rendered) == 0 {
		return doc, nil
	}
	idx, ok := htmldoc.HeadEnd(doc)
	if !ok {
		return "", htmldoc.ErrNoHead
	}
	return htmldoc.InsertAt(doc, "\n"+strings.Join(rendered, "\n")+"\n", idx)
}
