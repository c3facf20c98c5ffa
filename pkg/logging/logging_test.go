// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"log/slog"
	"testing"

	"daml.com/x/importmap/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogging(t *testing.T) {
	tests := []struct {
		value    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(config.LogLevelEnvVar, tt.value)
			require.NoError(t, InitLogging())
			assert.Equal(t, tt.expected, Level())
		})
	}

	t.Run("invalid", func(t *testing.T) {
		t.Setenv(config.LogLevelEnvVar, "chatty")
		assert.Error(t, InitLogging())
	})
}

func TestEnableDebug(t *testing.T) {
	t.Setenv(config.LogLevelEnvVar, "error")
	require.NoError(t, InitLogging())
	EnableDebug()
	assert.Equal(t, slog.LevelDebug, Level())
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}
