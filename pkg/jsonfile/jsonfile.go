// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package jsonfile persists generated maps as indented JSON files.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"daml.com/x/importmap/pkg/diagnostics"
	"daml.com/x/importmap/pkg/utils"
)

const DefaultIndent = "\t"

// Marshal encodes v with the given indent and a trailing newline.
func Marshal(v any, indent string) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Write writes v to path, creating parent directories. Concurrent writers of
// the same path, in this process or another, are serialized by a lock file
// next to it.
func Write(ctx context.Context, path string, v any, indent string) error {
	data, err := Marshal(v, indent)
	if err != nil {
		return err
	}
	return utils.WithTargetLock(ctx, path, func() error {
		if err := utils.EnsureDirs(filepath.Dir(path)); err != nil {
			return err
		}
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, data, 0644); err != nil {
			return err
		}
		return os.Rename(tmp, path)
	})
}

// Read decodes the JSON file at path into v.
func Read(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Writer runs writes in the background. Failures are reported, never returned.
type Writer struct {
	reporter diagnostics.Reporter
	wg       sync.WaitGroup
}

func NewWriter(r diagnostics.Reporter) *Writer {
	return &Writer{reporter: r}
}

// WriteAsync starts writing v to path and returns immediately.
func (w *Writer) WriteAsync(ctx context.Context, path string, v any, indent string) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := Write(ctx, path, v, indent); err != nil {
			diagnostics.Error(w.reporter, "failed to write import map to file", "path", path, "err", err)
			return
		}
		diagnostics.Debug(w.reporter, "import map written", "path", path)
	}()
}

// Wait blocks until every started write has finished.
func (w *Writer) Wait() {
	w.wg.Wait()
}
