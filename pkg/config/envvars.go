// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

const envVarPrefix = "IMPORTMAP_"

const (
	// LogLevelEnvVar
	// IMPORTMAP_LOG_LEVEL sets the log level.
	// 	Default: info
	//  Possible values: debug info warn error
	LogLevelEnvVar = envVarPrefix + "LOG_LEVEL"

	// ConfigEnvVar
	// IMPORTMAP_CONFIG is the path to the config file to use instead of ./importmap.yaml
	ConfigEnvVar = envVarPrefix + "CONFIG"

	// DomainEnvVar
	// IMPORTMAP_DOMAIN overrides the domain of both import map entries and scripts
	DomainEnvVar = envVarPrefix + "DOMAIN"

	// StrictEnvVar
	// IMPORTMAP_STRICT turns version mismatches into errors (true) or warnings (false).
	// 	Default: true
	StrictEnvVar = envVarPrefix + "STRICT"

	// CacheEnvVar
	// IMPORTMAP_CACHE=false rescans the workspace on every version lookup
	CacheEnvVar = envVarPrefix + "CACHE"

	// DebugEnvVar
	// IMPORTMAP_DEBUG enables debug diagnostics
	DebugEnvVar = envVarPrefix + "DEBUG"

	// WriteEnvVar
	// IMPORTMAP_WRITE persists the generated map: "true" for the default path, or a path
	WriteEnvVar = envVarPrefix + "WRITE"
)

var EnvVars = []string{LogLevelEnvVar, ConfigEnvVar, DomainEnvVar, StrictEnvVar, CacheEnvVar, DebugEnvVar, WriteEnvVar}
