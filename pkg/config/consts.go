// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import "daml.com/x/importmap/pkg/schema"

const (
	ConfigFileName = "importmap.yaml"
	Kind           = "ImportMapConfig"

	DefaultID        = "import-map-plugin"
	DefaultHTML      = "index.html"
	DefaultWritePath = "dist/import-map.json"
	DefaultIndent    = "\t"

	// IDs of the elements injected by the pipeline are suffixed per transform.
	ImportMapIDSuffix = "-import-map"
	ScriptsIDSuffix   = "-scripts"
)

var APIVersion = schema.APIGroup + "/v1"

var Meta = schema.ManifestMeta{APIVersion: APIVersion, Kind: Kind}
