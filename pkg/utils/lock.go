// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/juju/fslock"
)

const (
	defaultLockPoll      = 50 * time.Millisecond
	defaultLockWarnAfter = 5 * time.Second
)

type lockOptions struct {
	poll      time.Duration
	warnAfter time.Duration
	logger    *slog.Logger
}

type LockOption func(*lockOptions)

// WithLockPoll sets how often a lock held elsewhere is retried.
func WithLockPoll(d time.Duration) LockOption {
	return func(o *lockOptions) { o.poll = d }
}

// WithLockWarnAfter sets how long to wait before warning that the lock is
// still held.
func WithLockWarnAfter(d time.Duration) LockOption {
	return func(o *lockOptions) { o.warnAfter = d }
}

func WithLockLogger(l *slog.Logger) LockOption {
	return func(o *lockOptions) { o.logger = l }
}

// LockPath is the lock file guarding writes to target.
func LockPath(target string) string {
	return target + ".lock"
}

// WithTargetLock runs action while holding the lock of target, waiting for
// other writers of the same file until ctx is done. A holder that keeps the
// lock past the warn delay is reported once. The lock dies with its process,
// so a crashed writer never leaves it held.
func WithTargetLock(ctx context.Context, target string, action func() error, opts ...LockOption) error {
	o := lockOptions{poll: defaultLockPoll, warnAfter: defaultLockWarnAfter, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	lockPath := LockPath(target)
	if err := EnsureDirs(filepath.Dir(lockPath)); err != nil {
		return err
	}

	lock := fslock.New(lockPath)
	if err := acquire(ctx, lock, target, o); err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			o.logger.Warn("failed to release lock", "target", target, "err", err.Error())
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return action()
}

// acquire polls because fslock has no context aware wait.
func acquire(ctx context.Context, lock *fslock.Lock, target string, o lockOptions) error {
	start := time.Now()
	warned := false
	for {
		err := lock.TryLock()
		if err == nil {
			return nil
		}
		if !errors.Is(err, fslock.ErrLocked) {
			return fmt.Errorf("failed to lock %s: %w", target, err)
		}

		waited := time.Since(start)
		if !warned && waited >= o.warnAfter {
			o.logger.Warn("target still locked by another writer", "target", target, "lock", LockPath(target), "waited", waited.Round(time.Millisecond))
			warned = true
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for lock on %s: %w", target, ctx.Err())
		case <-time.After(o.poll):
		}
	}
}
