// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"log/slog"
	"os"

	"daml.com/x/importmap/pkg/config"
)

var level = new(slog.LevelVar)

func InitLogging() error {
	logLevel, ok := os.LookupEnv(config.LogLevelEnvVar)
	if !ok {
		return initLogging("info")
	}
	return initLogging(logLevel)
}

func initLogging(logLevel string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(logLevel)); err != nil {
		return err
	}
	level.Set(l)

	slogHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(slogHandler))
	return nil
}

// EnableDebug lowers the level of the installed logger to debug.
func EnableDebug() {
	level.Set(slog.LevelDebug)
}

func Level() slog.Level {
	return level.Level()
}
