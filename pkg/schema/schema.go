// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package schema identifies the kind and version of the YAML documents the
// tool reads.
package schema

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

const (
	APIGroup = "digitalasset.com"
)

var ErrInvalidSchema = errors.New("invalid schema")

// FieldError names the header field that is missing or unsupported.
type FieldError struct {
	Field    string
	Got      string
	Expected string
}

func (e *FieldError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("missing required field '%s'", e.Field)
	}
	return fmt.Sprintf("unsupported %s %q. expected %q", e.Field, e.Got, e.Expected)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidSchema
}

type ManifestMeta struct {
	APIVersion string `yaml:"apiVersion" json:"apiVersion"`
	Kind       string `yaml:"kind" json:"kind"`
}

// ValidateSchema checks that target carries the kind, then the apiVersion, of m.
func (m ManifestMeta) ValidateSchema(target ManifestMeta) error {
	if target.Kind != m.Kind {
		return &FieldError{Field: "kind", Got: target.Kind, Expected: m.Kind}
	}
	if target.APIVersion != m.APIVersion {
		return &FieldError{Field: "apiVersion", Got: target.APIVersion, Expected: m.APIVersion}
	}
	return nil
}

// ValidateDocument reads only the header of a YAML document and validates
// it, so a document of the wrong kind is rejected before its body is decoded.
func (m ManifestMeta) ValidateDocument(contents []byte) error {
	var header ManifestMeta
	if err := yaml.Unmarshal(contents, &header); err != nil {
		return fmt.Errorf("failed to read document header: %w", err)
	}
	return m.ValidateSchema(header)
}
