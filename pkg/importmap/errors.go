// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package importmap

import (
	"errors"
	"fmt"
)

var (
	ErrMissingVersion = errors.New("no version could be resolved")
	ErrMissingDomain  = errors.New("no domain could be resolved")
	ErrMalformedURL   = errors.New("malformed url")
	ErrScopeConflict  = errors.New("scope conflict")
	ErrImportConflict = errors.New("import conflict")
)

type MissingVersionError struct {
	Name string
}

func (e *MissingVersionError) Error() string {
	return fmt.Sprintf("no version could be resolved for '%s'", e.Name)
}

func (e *MissingVersionError) Unwrap() error {
	return ErrMissingVersion
}

type MissingDomainError struct {
	Name string
}

func (e *MissingDomainError) Error() string {
	return fmt.Sprintf("no domain could be resolved for '%s'", e.Name)
}

func (e *MissingDomainError) Unwrap() error {
	return ErrMissingDomain
}

type MalformedURLError struct {
	Name  string
	URL   string
	Cause error
}

func (e *MalformedURLError) Error() string {
	return fmt.Sprintf("invalid url %q computed for '%s': %v", e.URL, e.Name, e.Cause)
}

func (e *MalformedURLError) Unwrap() []error {
	return []error{ErrMalformedURL, e.Cause}
}

// ScopeConflictError is raised when two scoped maps disagree on the URL of
// the same dependency within the same scope.
type ScopeConflictError struct {
	Dep      string
	Scope    string
	Existing string
	Incoming string
}

func (e *ScopeConflictError) Error() string {
	return fmt.Sprintf("scope conflict for '%s' in scope '%s': '%s' != '%s'", e.Dep, e.Scope, e.Existing, e.Incoming)
}

func (e *ScopeConflictError) Unwrap() error {
	return ErrScopeConflict
}

// ImportConflictError is raised when a top-level import can neither be
// shared nor demoted into the scope of the map declaring it.
type ImportConflictError struct {
	Dep      string
	Scope    string
	Existing string
	Incoming string
}

func (e *ImportConflictError) Error() string {
	return fmt.Sprintf("import conflict for '%s': scope '%s' already maps it to '%s', cannot add '%s'", e.Dep, e.Scope, e.Existing, e.Incoming)
}

func (e *ImportConflictError) Unwrap() error {
	return ErrImportConflict
}
