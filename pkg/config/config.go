// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"daml.com/x/importmap/pkg/importmap"
	"daml.com/x/importmap/pkg/packagejson"
	"daml.com/x/importmap/pkg/schema"
	"daml.com/x/importmap/pkg/scripts"
	"daml.com/x/importmap/pkg/utils"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
)

// Config describes one injection run. Every field is optional.
type Config struct {
	schema.ManifestMeta `yaml:",inline"`

	// ID identifies the injected elements.
	ID string `yaml:"id,omitempty"`
	// HTML is the input document.
	HTML string `yaml:"html,omitempty"`
	// Output is where the mutated document goes; empty means stdout.
	Output string `yaml:"output,omitempty"`
	// Manifest is the package.json providing dependencies and runtime dependencies.
	Manifest string `yaml:"manifest,omitempty"`
	// Workspace is the root scanned for workspace packages. Defaults to the
	// root derived from the manifest's repository.directory.
	Workspace string `yaml:"workspace,omitempty"`

	Domain  Domain              `yaml:"domain,omitempty"`
	Imports *importmap.Imports  `yaml:"imports,omitempty"`
	Map     *importmap.Template `yaml:"map,omitempty"`
	Scripts []scripts.Tag       `yaml:"scripts,omitempty"`
	Scope   string              `yaml:"scope,omitempty"`

	Strict *bool  `yaml:"strict,omitempty"`
	Cache  *bool  `yaml:"cache,omitempty"`
	Debug  bool   `yaml:"debug,omitempty"`
	Write  Write  `yaml:"write,omitempty"`
	Indent string `yaml:"indent,omitempty"`

	// Dir is the directory relative paths are resolved against.
	Dir string `yaml:"-"`
}

// Domain is either one domain for everything or a domain per transform.
type Domain struct {
	Map     string `json:"map,omitempty"`
	Scripts string `json:"scripts,omitempty"`
}

func (d *Domain) UnmarshalJSON(data []byte) error {
	if d2 := bytes.TrimSpace(data); len(d2) > 0 && d2[0] == '"' {
		var s string
		if err := json.Unmarshal(d2, &s); err != nil {
			return err
		}
		*d = Domain{Map: s, Scripts: s}
		return nil
	}
	type plain Domain
	return json.Unmarshal(data, (*plain)(d))
}

// Write is either a boolean or the path to write the generated map to.
type Write struct {
	Enabled bool
	Path    string
}

func (w *Write) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*w = Write{Enabled: b}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("write must be a boolean or a path: %w", err)
	}
	*w = ParseWrite(s)
	return nil
}

// ParseWrite reads "true", "false" or a path.
func ParseWrite(s string) Write {
	if b, err := strconv.ParseBool(s); err == nil {
		return Write{Enabled: b}
	}
	return Write{Enabled: s != "", Path: s}
}

// Target returns the path to write to, if writing is enabled.
func (w Write) Target() (string, bool) {
	if !w.Enabled {
		return "", false
	}
	return lo.Ternary(w.Path != "", w.Path, DefaultWritePath), true
}

func (c *Config) IsStrict() bool {
	return c.Strict == nil || *c.Strict
}

func (c *Config) UseCache() bool {
	return c.Cache == nil || *c.Cache
}

// OverlayImports merges "name=version" or "name={json import}" overrides onto
// the configured imports. A structured override only replaces the fields it
// sets.
func (c *Config) OverlayImports(overrides []string) error {
	if len(overrides) == 0 {
		return nil
	}
	flags := importmap.NewImports()
	for _, o := range overrides {
		name, entry, err := ParseImport(o)
		if err != nil {
			return err
		}
		flags.Set(name, entry)
	}
	c.Imports = importmap.MergeImports(c.Imports, flags)
	return nil
}

// ParseImport reads a single import override.
func ParseImport(s string) (string, importmap.Entry, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" || value == "" {
		return "", importmap.Entry{}, fmt.Errorf("invalid import %q, expected name=version or name={json}", s)
	}
	if !strings.HasPrefix(strings.TrimSpace(value), "{") {
		return name, importmap.VersionOf(value), nil
	}
	var entry importmap.Entry
	if err := json.Unmarshal([]byte(value), &entry); err != nil {
		return "", importmap.Entry{}, fmt.Errorf("invalid import %q: %w", s, err)
	}
	return name, entry, nil
}

// Path resolves p against the config directory.
func (c *Config) Path(p string) string {
	return utils.ResolvePath(c.Dir, p)
}

// ReadManifest reads the configured package.json. A missing file is not an error.
func (c *Config) ReadManifest() (*packagejson.Manifest, error) {
	m, err := packagejson.Read(c.Path(c.Manifest))
	if os.IsNotExist(err) {
		return nil, nil
	}
	return m, err
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config, err := Parse(contents)
	if err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	config.Dir = filepath.Dir(abs)
	return config, nil
}

func Parse(contents []byte) (*Config, error) {
	if err := Meta.ValidateDocument(contents); err != nil {
		return nil, err
	}
	var config Config
	if err := yaml.UnmarshalWithOptions(contents, &config, yaml.UseJSONUnmarshaler()); err != nil {
		return nil, err
	}
	return &config, nil
}

// Get loads the config for dir: the file named by IMPORTMAP_CONFIG, else
// dir/importmap.yaml when present, else an empty config. Env var overrides
// and defaults are applied on top.
func Get(dir string) (*Config, error) {
	return GetWithConfigFile(dir, os.Getenv(ConfigEnvVar))
}

// GetWithConfigFile is Get with an explicit config file. An empty path falls
// back to the optional dir/importmap.yaml.
func GetWithConfigFile(dir, path string) (*Config, error) {
	config := &Config{ManifestMeta: Meta, Dir: dir}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, ConfigFileName)
	}
	fileInfo, err := os.Stat(path)
	if err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		if fileInfo.IsDir() {
			return nil, fmt.Errorf("%q is directory and not a file", path)
		}
		if config, err = Load(path); err != nil {
			return nil, err
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	config.applyDefaults()
	return config, nil
}

func (c *Config) applyEnv() error {
	if domain, ok := os.LookupEnv(DomainEnvVar); ok {
		c.Domain = Domain{Map: domain, Scripts: domain}
	}
	if write, ok := os.LookupEnv(WriteEnvVar); ok {
		c.Write = ParseWrite(write)
	}

	for key, target := range map[string]**bool{StrictEnvVar: &c.Strict, CacheEnvVar: &c.Cache} {
		v, ok, err := utils.LookupBoolEnv(key)
		if err != nil {
			return err
		}
		if ok {
			*target = &v
		}
	}

	debug, ok, err := utils.LookupBoolEnv(DebugEnvVar)
	if err != nil {
		return err
	}
	if ok {
		c.Debug = debug
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.ID = lo.Ternary(c.ID != "", c.ID, DefaultID)
	c.HTML = lo.Ternary(c.HTML != "", c.HTML, DefaultHTML)
	c.Manifest = lo.Ternary(c.Manifest != "", c.Manifest, packagejson.Filename)
	c.Indent = lo.Ternary(c.Indent != "", c.Indent, DefaultIndent)
}
