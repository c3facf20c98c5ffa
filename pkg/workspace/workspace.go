// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package workspace discovers the packages of a local multi-package source
// tree and answers version lookups for workspace references.
package workspace

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"daml.com/x/importmap/pkg/diagnostics"
	"daml.com/x/importmap/pkg/packagejson"
	"daml.com/x/importmap/pkg/version"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"golang.org/x/sync/singleflight"
)

var DefaultIgnoredDirs = []string{"node_modules", ".git"}

type Package struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Path    string `json:"path" yaml:"path"`
}

type Packages map[string]*Package

type Option func(*Workspace)

func WithReporter(r diagnostics.Reporter) Option {
	return func(w *Workspace) {
		w.reporter = r
	}
}

// WithIgnoredDirs replaces the directory names never descended into.
func WithIgnoredDirs(dirs ...string) Option {
	return func(w *Workspace) {
		w.ignoredDirs = dirs
	}
}

// Workspace owns the package cache of one source tree. It is safe for
// concurrent use; concurrent first lookups share a single scan.
type Workspace struct {
	root        string
	reporter    diagnostics.Reporter
	ignoredDirs []string

	mu       sync.RWMutex
	packages Packages
	scans    singleflight.Group
}

var _ version.WorkspaceLookup = (*Workspace)(nil)

func New(root string, opts ...Option) *Workspace {
	w := &Workspace{root: root, ignoredDirs: DefaultIgnoredDirs}
	for _, o := range opts {
		o(w)
	}
	return w
}

func (w *Workspace) Root() string {
	return w.root
}

// Packages returns the discovered packages. The tree is scanned on first use,
// and again whenever cache is false.
func (w *Workspace) Packages(cache bool) (Packages, error) {
	if cache {
		w.mu.RLock()
		p := w.packages
		w.mu.RUnlock()
		if p != nil {
			return p, nil
		}
	}

	v, err, _ := w.scans.Do("scan", func() (any, error) {
		p, err := w.scan()
		if err != nil {
			return nil, err
		}
		w.mu.Lock()
		w.packages = p
		w.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Packages), nil
}

// Invalidate drops the cache; the next lookup rescans.
func (w *Workspace) Invalidate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.packages = nil
}

func (w *Workspace) Lookup(name string, cache bool) (*Package, bool) {
	packages, err := w.Packages(cache)
	if err != nil {
		diagnostics.Warn(w.reporter, "failed to scan workspace", "root", w.root, "err", err)
		return nil, false
	}
	p, ok := packages[name]
	return p, ok
}

// Version implements version.WorkspaceLookup. A miss is reported, never an error.
func (w *Workspace) Version(name string, cache bool) (string, bool) {
	p, ok := w.Lookup(name, cache)
	if !ok || p.Version == "" {
		diagnostics.Warn(w.reporter, "no workspace version found", "name", name, "root", w.root)
		return "", false
	}
	return p.Version, true
}

func (w *Workspace) scan() (Packages, error) {
	root, err := filepath.Abs(w.root)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		diagnostics.Debug(w.reporter, "failed to read .gitignore files", "root", root, "err", err)
	}
	matcher := gitignore.NewMatcher(patterns)

	packages := Packages{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")

		if d.IsDir() {
			if slices.Contains(w.ignoredDirs, d.Name()) || matcher.Match(parts, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != packagejson.Filename || matcher.Match(parts, false) {
			return nil
		}

		p, err := readPackage(path)
		if err != nil {
			diagnostics.Warn(w.reporter, "skipping malformed manifest", "path", path, "err", err)
			return nil
		}
		if p.Name == "" {
			return nil
		}
		if existing, ok := packages[p.Name]; ok {
			diagnostics.Debug(w.reporter, "package found twice in workspace", "name", p.Name, "first", existing.Path, "second", p.Path)
		}
		packages[p.Name] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return packages, nil
}

func readPackage(path string) (*Package, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(contents, &m); err != nil {
		return nil, err
	}
	return &Package{Name: m.Name, Version: m.Version, Path: filepath.Dir(path)}, nil
}

// RootFor returns the workspace root of a package located in dir, walking up
// one level per segment of the manifest's repository.directory.
func RootFor(dir string, manifest *packagejson.Manifest) string {
	if manifest == nil || manifest.Repository == nil || manifest.Repository.Directory == "" {
		return filepath.Clean(dir)
	}
	segments := strings.Split(strings.Trim(filepath.ToSlash(manifest.Repository.Directory), "/"), "/")
	up := make([]string, 0, len(segments)+1)
	up = append(up, dir)
	for _, s := range segments {
		if s != "" && s != "." {
			up = append(up, "..")
		}
	}
	return filepath.Clean(filepath.Join(up...))
}

// FindRoot returns the root of the git worktree containing dir, or dir itself
// outside of a git repository.
func FindRoot(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return dir, nil
	} else if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return dir, nil
	} else if err != nil {
		return "", err
	}
	return wt.Filesystem.Root(), nil
}
