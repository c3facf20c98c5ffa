// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package importmap

import (
	"errors"
	"net/url"
	"strings"

	"github.com/samber/lo"
)

const (
	DefaultSeparator = "@"
	DefaultIndex     = "index.js"
)

// ComputeURL builds the URL of a dependency:
//
//	<domain>/<base or name><separator><version>/<index>
//
// An explicit Src is returned as is. Empty parts are left out of the join.
func ComputeURL(i NamedImport, defaultSeparator string) (string, error) {
	if i.Src != "" {
		return i.Src, nil
	}
	if i.Version == "" {
		return "", &MissingVersionError{Name: i.Name}
	}
	if i.Domain == "" {
		return "", &MissingDomainError{Name: i.Name}
	}

	name := lo.Ternary(i.Base != "", i.Base, i.Name)
	separator := lo.Ternary(i.Separator != "", i.Separator, defaultSeparator)

	parts := lo.Compact([]string{i.Domain, name + separator + i.Version, i.Index})
	joined := strings.Join(parts, "/")

	u, err := url.Parse(joined)
	if err != nil {
		return "", &MalformedURLError{Name: i.Name, URL: joined, Cause: err}
	}
	if !u.IsAbs() {
		return "", &MalformedURLError{Name: i.Name, URL: joined, Cause: errors.New("not an absolute url")}
	}
	if u.Host == "" {
		return "", &MalformedURLError{Name: i.Name, URL: joined, Cause: errors.New("missing host")}
	}
	return joined, nil
}
