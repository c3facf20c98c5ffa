// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"daml.com/x/importmap/pkg/config"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// TestdataPath gives absolute path within the common 'testdata'
func TestdataPath(t *testing.T, path ...string) string {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)

	p := []string{filepath.Dir(file), "testdata"}
	p = append(p, path...)
	return filepath.Join(p...)
}

// CopyTestdata copies a directory of the common 'testdata' into a fresh temp
// dir, so tests can write next to the fixtures.
func CopyTestdata(t *testing.T, path ...string) string {
	dst := t.TempDir()
	require.NoError(t, os.CopyFS(dst, os.DirFS(TestdataPath(t, path...))))
	return dst
}

type CommonSetupSuite struct {
	suite.Suite
}

// SetupTest clears every IMPORTMAP_ env var, so the developer's environment
// can't leak into the tests.
func (suite *CommonSetupSuite) SetupTest() {
	for _, key := range config.EnvVars {
		if _, ok := os.LookupEnv(key); ok {
			suite.T().Setenv(key, "")
			require.NoError(suite.T(), os.Unsetenv(key))
		}
	}
}

func Context(t *testing.T) context.Context {
	ctx, stopFn := context.WithCancel(context.Background())
	t.Cleanup(stopFn)
	return ctx
}
