// Package target loads the kiln.toml target manifest: which platform the
// lowering emits for and the marker fragments its accessor names use.
package target

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"kiln/internal/accessors"
)

// ManifestName is the file kiln searches for upward from the start directory.
const ManifestName = "kiln.toml"

// Config is the decoded kiln.toml.
type Config struct {
	Target  TargetConfig  `toml:"target"`
	Markers MarkersConfig `toml:"markers"`
}

// TargetConfig names the platform and the suffix hash algorithm.
type TargetConfig struct {
	Name string `toml:"name"`
	Hash string `toml:"hash"`
}

// MarkersConfig overrides individual accessor name fragments. Empty fields
// keep their defaults; overriding any fragment breaks compatibility with
// previously emitted artifacts.
type MarkersConfig struct {
	FunctionPrefix    string `toml:"function_prefix"`
	GetterPrefix      string `toml:"getter_prefix"`
	SetterPrefix      string `toml:"setter_prefix"`
	InterfaceDefault  string `toml:"interface_default"`
	SuperPrefix       string `toml:"super_prefix"`
	Property          string `toml:"property"`
	CompanionProperty string `toml:"companion_property"`
}

// ApplyDefaults fills unset fields and validates the hash selector. Only the
// Java string hash is implemented; rejecting unknown selectors here is what
// keeps emitted names stable across configs.
func (c *Config) ApplyDefaults() error {
	if c.Target.Name == "" {
		c.Target.Name = "jvm"
	}
	if c.Target.Hash == "" {
		c.Target.Hash = "java"
	}
	if c.Target.Hash != "java" {
		return fmt.Errorf("target: unsupported suffix hash %q (only \"java\")", c.Target.Hash)
	}
	return nil
}

// PlatformMarkers merges the configured overrides over the platform defaults.
func (c *Config) PlatformMarkers() accessors.Markers {
	markers := accessors.DefaultMarkers()
	if c.Markers.FunctionPrefix != "" {
		markers.FunctionPrefix = c.Markers.FunctionPrefix
	}
	if c.Markers.GetterPrefix != "" {
		markers.GetterPrefix = c.Markers.GetterPrefix
	}
	if c.Markers.SetterPrefix != "" {
		markers.SetterPrefix = c.Markers.SetterPrefix
	}
	if c.Markers.InterfaceDefault != "" {
		markers.InterfaceDefault = c.Markers.InterfaceDefault
	}
	if c.Markers.SuperPrefix != "" {
		markers.SuperPrefix = c.Markers.SuperPrefix
	}
	if c.Markers.Property != "" {
		markers.Property = c.Markers.Property
	}
	if c.Markers.CompanionProperty != "" {
		markers.CompanionProperty = c.Markers.CompanionProperty
	}
	return markers
}

// Find walks upward from startDir looking for the manifest.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("target: failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("target: failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads and validates a manifest file.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("target: failed to parse %q: %w", path, err)
	}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault searches upward from startDir; when no manifest exists the
// defaults are returned.
func LoadOrDefault(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		cfg := &Config{}
		if err := cfg.ApplyDefaults(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}
