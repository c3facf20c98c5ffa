// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package importmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeURL(t *testing.T) {
	tests := []struct {
		name      string
		in        NamedImport
		separator string
		expected  string
	}{
		{
			name:      "domain name version index",
			in:        NamedImport{Name: "x", Import: Import{Version: "1.2.3", Domain: "https://d", Index: "index.js"}},
			separator: DefaultSeparator,
			expected:  "https://d/x@1.2.3/index.js",
		},
		{
			name:      "base replaces name",
			in:        NamedImport{Name: "x", Import: Import{Version: "1.2.3", Domain: "https://d", Index: "index.js", Base: "y"}},
			separator: DefaultSeparator,
			expected:  "https://d/y@1.2.3/index.js",
		},
		{
			name:      "no index",
			in:        NamedImport{Name: "x", Import: Import{Version: "1.2.3", Domain: "https://d"}},
			separator: DefaultSeparator,
			expected:  "https://d/x@1.2.3",
		},
		{
			name:      "custom separator",
			in:        NamedImport{Name: "x", Import: Import{Version: "1.2.3", Domain: "https://d", Separator: "/v"}},
			separator: DefaultSeparator,
			expected:  "https://d/x/v1.2.3",
		},
		{
			name:      "default separator argument",
			in:        NamedImport{Name: "x", Import: Import{Version: "1.2.3", Domain: "https://d", Index: "x.css"}},
			separator: "/",
			expected:  "https://d/x/1.2.3/x.css",
		},
		{
			name:      "range characters are kept",
			in:        NamedImport{Name: "x", Import: Import{Version: "^1.2.3", Domain: "https://d"}},
			separator: DefaultSeparator,
			expected:  "https://d/x@^1.2.3",
		},
		{
			name:      "src wins over everything",
			in:        NamedImport{Name: "x", Import: Import{Src: "https://s"}},
			separator: DefaultSeparator,
			expected:  "https://s",
		},
		{
			name:      "src is not validated",
			in:        NamedImport{Name: "x", Import: Import{Src: "./local.js", Domain: "not a url"}},
			separator: DefaultSeparator,
			expected:  "./local.js",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeURL(tt.in, tt.separator)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestComputeURLErrors(t *testing.T) {
	t.Run("missing version", func(t *testing.T) {
		_, err := ComputeURL(NamedImport{Name: "x", Import: Import{Domain: "https://d"}}, DefaultSeparator)
		var target *MissingVersionError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "x", target.Name)
		assert.ErrorIs(t, err, ErrMissingVersion)
	})

	t.Run("missing domain", func(t *testing.T) {
		_, err := ComputeURL(NamedImport{Name: "x", Import: Import{Version: "1.0.0"}}, DefaultSeparator)
		var target *MissingDomainError
		require.ErrorAs(t, err, &target)
		assert.ErrorIs(t, err, ErrMissingDomain)
	})

	t.Run("domain without scheme", func(t *testing.T) {
		_, err := ComputeURL(NamedImport{Name: "x", Import: Import{Version: "1.0.0", Domain: "example.com"}}, DefaultSeparator)
		var target *MalformedURLError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "example.com/x@1.0.0", target.URL)
		assert.ErrorIs(t, err, ErrMalformedURL)
	})

	t.Run("domain without host", func(t *testing.T) {
		_, err := ComputeURL(NamedImport{Name: "x", Import: Import{Version: "1.0.0", Domain: "https:example.com"}}, DefaultSeparator)
		var target *MalformedURLError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "https:example.com/x@1.0.0", target.URL)
		assert.ErrorContains(t, err, "missing host")
	})

	t.Run("unparsable domain", func(t *testing.T) {
		_, err := ComputeURL(NamedImport{Name: "x", Import: Import{Version: "1.0.0", Domain: "https://bad host"}}, DefaultSeparator)
		assert.ErrorIs(t, err, ErrMalformedURL)
	})
}
