// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package diagnostics

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	c := &Collector{}
	Warn(c, "no workspace version found", "name", "dep")
	Debug(c, "skipped")

	assert.Equal(t, []string{"no workspace version found name=dep"}, c.Warnings())
	assert.Equal(t, []string{"skipped"}, c.AtLevel(slog.LevelDebug))
	assert.Len(t, c.Events(), 2)
}

func TestPrinterFiltersByLevel(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	p := NewPrinter(&buf, slog.LevelInfo)
	Multi(p, Discard).Report(Event{Level: slog.LevelDebug, Message: "hidden"})
	Warn(p, "version mismatch", "package", "dep1")

	assert.Equal(t, "warning: version mismatch package=dep1\n", buf.String())
}
