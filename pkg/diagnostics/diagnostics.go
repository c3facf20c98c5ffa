// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package diagnostics carries non-fatal findings (warnings, debug traces)
// out of the generation pipeline as data. Callers decide where they end up.
package diagnostics

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/samber/lo"
)

type Event struct {
	Level   slog.Level
	Message string
	// Attrs are slog style alternating key/value pairs.
	Attrs []any
}

func (e Event) String() string {
	if len(e.Attrs) == 0 {
		return e.Message
	}
	pairs := lo.Map(lo.Chunk(e.Attrs, 2), func(kv []any, _ int) string {
		if len(kv) == 1 {
			return fmt.Sprint(kv[0])
		}
		return fmt.Sprintf("%v=%v", kv[0], kv[1])
	})
	return e.Message + " " + strings.Join(pairs, " ")
}

type Reporter interface {
	Report(Event)
}

type ReporterFunc func(Event)

func (f ReporterFunc) Report(e Event) {
	f(e)
}

// OrDefault returns r, or a reporter forwarding to the default slog logger.
func OrDefault(r Reporter) Reporter {
	if r == nil {
		return Slog{}
	}
	return r
}

func Debug(r Reporter, msg string, attrs ...any) {
	OrDefault(r).Report(Event{Level: slog.LevelDebug, Message: msg, Attrs: attrs})
}

func Info(r Reporter, msg string, attrs ...any) {
	OrDefault(r).Report(Event{Level: slog.LevelInfo, Message: msg, Attrs: attrs})
}

func Warn(r Reporter, msg string, attrs ...any) {
	OrDefault(r).Report(Event{Level: slog.LevelWarn, Message: msg, Attrs: attrs})
}

func Error(r Reporter, msg string, attrs ...any) {
	OrDefault(r).Report(Event{Level: slog.LevelError, Message: msg, Attrs: attrs})
}

// Discard drops every event.
var Discard Reporter = ReporterFunc(func(Event) {})

// Slog forwards events to a slog logger (slog.Default() when nil).
type Slog struct {
	Logger *slog.Logger
}

func (s Slog) Report(e Event) {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	l.Log(context.Background(), e.Level, e.Message, e.Attrs...)
}

// Collector keeps events in memory.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *Collector) Report(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

// AtLevel returns the messages of the collected events with the given level.
func (c *Collector) AtLevel(level slog.Level) []string {
	return lo.FilterMap(c.Events(), func(e Event, _ int) (string, bool) {
		return e.String(), e.Level == level
	})
}

func (c *Collector) Warnings() []string {
	return c.AtLevel(slog.LevelWarn)
}

// Printer writes coloured, human readable lines.
type Printer struct {
	W        io.Writer
	MinLevel slog.Level
	mu       sync.Mutex
}

func NewPrinter(w io.Writer, minLevel slog.Level) *Printer {
	return &Printer{W: w, MinLevel: minLevel}
}

func (p *Printer) Report(e Event) {
	if e.Level < p.MinLevel {
		return
	}
	var prefix string
	switch {
	case e.Level >= slog.LevelError:
		prefix = color.RedString("error:")
	case e.Level >= slog.LevelWarn:
		prefix = color.YellowString("warning:")
	case e.Level >= slog.LevelInfo:
		prefix = color.CyanString("info:")
	default:
		prefix = color.MagentaString("debug:")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.W, prefix, e.String())
}

// Multi fans events out to every reporter.
func Multi(reporters ...Reporter) Reporter {
	return ReporterFunc(func(e Event) {
		for _, r := range reporters {
			r.Report(e)
		}
	})
}
