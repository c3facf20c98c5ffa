// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package htmldoc locates and splices import maps and script tags in an HTML
// document without re-serializing it. Offsets are byte offsets into the
// original string.
package htmldoc

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"daml.com/x/importmap/pkg/importmap"
	"golang.org/x/net/html"
)

var (
	ErrMultipleMaps    = errors.New("invalid import map detected. An index file can only have one import map script")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNoHead          = errors.New("no closing </head> tag found")
)

type script struct {
	// Start and End delimit the whole element, ContentStart and ContentEnd its text.
	Start, End               int
	ContentStart, ContentEnd int
	Type                     string
	InHead                   bool
}

type document struct {
	scripts []script
	// headEnd is the offset of the first </head>, or -1.
	headEnd int
}

func scan(doc string) document {
	d := document{headEnd: -1}
	z := html.NewTokenizer(strings.NewReader(doc))

	var open *script
	inHead := false
	offset := 0
	for {
		tt := z.Next()
		start := offset
		offset += len(z.Raw())

		switch tt {
		case html.ErrorToken:
			if open != nil && errors.Is(z.Err(), io.EOF) {
				open.ContentEnd, open.End = offset, offset
				d.scripts = append(d.scripts, *open)
			}
			return d
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "head":
				inHead = true
			case "body":
				inHead = false
			case "script":
				s := script{Start: start, ContentStart: offset, InHead: inHead}
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					if string(key) == "type" {
						s.Type = strings.ToLower(strings.TrimSpace(string(val)))
					}
				}
				// the tokenizer reads script content as raw text even after "<script/>"
				open = &s
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "head":
				if d.headEnd < 0 {
					d.headEnd = start
				}
				inHead = false
			case "script":
				if open != nil {
					open.ContentEnd, open.End = start, offset
					d.scripts = append(d.scripts, *open)
					open = nil
				}
			}
		}
	}
}

// Extracted is the import map found in a document.
type Extracted struct {
	Found bool
	// Raw is the text between the script tags.
	Raw string
	// Start and End delimit Raw in the document.
	Start, End int
	Template   *importmap.Template
}

// ExtractMap returns the import map declared in doc. A document may hold at
// most one; JSON errors are returned as is.
func ExtractMap(doc string) (*Extracted, error) {
	var maps []script
	for _, s := range scan(doc).scripts {
		if s.Type == "importmap" {
			maps = append(maps, s)
		}
	}
	if len(maps) > 1 {
		return nil, ErrMultipleMaps
	}

	result := &Extracted{Template: importmap.NewTemplate()}
	if len(maps) == 0 {
		return result, nil
	}

	m := maps[0]
	result.Found = true
	result.Start, result.End = m.ContentStart, m.ContentEnd
	result.Raw = doc[m.ContentStart:m.ContentEnd]
	if strings.TrimSpace(result.Raw) == "" {
		return result, nil
	}
	if err := json.Unmarshal([]byte(result.Raw), result.Template); err != nil {
		return nil, err
	}
	return result, nil
}

// FindInsertionPoint returns where an import map has to go so that it
// precedes every module: the first module script in head, else the first
// script in head, else the closing head tag.
func FindInsertionPoint(doc string) (int, bool) {
	d := scan(doc)
	if d.headEnd < 0 {
		return 0, false
	}
	var first *script
	for i, s := range d.scripts {
		if !s.InHead {
			continue
		}
		if s.Type == "module" {
			return s.Start, true
		}
		if first == nil {
			first = &d.scripts[i]
		}
	}
	if first != nil {
		return first.Start, true
	}
	return d.headEnd, true
}

// HeadEnd returns the offset of the closing head tag.
func HeadEnd(doc string) (int, bool) {
	d := scan(doc)
	return d.headEnd, d.headEnd >= 0
}

// InsertAt inserts text before the byte at index. index may equal len(doc).
func InsertAt(doc, text string, index int) (string, error) {
	if index < 0 || index > len(doc) {
		return "", ErrIndexOutOfRange
	}
	return doc[:index] + text + doc[index:], nil
}

// ReplaceSpan replaces doc[start:end] with text.
func ReplaceSpan(doc, text string, start, end int) (string, error) {
	if start < 0 || end > len(doc) || start > end {
		return "", ErrIndexOutOfRange
	}
	return doc[:start] + text + doc[end:], nil
}
