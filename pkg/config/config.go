// Package config loads and writes the gravity configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/gravity/config.toml
// (~/.config/gravity/config.toml when XDG_CONFIG_HOME is unset):
//
//	[engine]
//	alpha = 0.7
//	beta = 0.3
//	tmax = 480.0
//	r_min = 40.0
//	r_max = 360.0
//
//	[engine.quadrants.q1]
//	start = -45.0
//	span = 90.0
//
//	[cache]
//	backend = "file"
//	ttl = "168h"
//
//	[server]
//	addr = "localhost:8080"
//
// A missing file is not an error: [Load] returns [Default]. A partial file
// overlays the defaults, so only the keys that differ need to be written.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gravity/pkg/cache"
	"github.com/matzehuels/gravity/pkg/core/gravity"
	"github.com/matzehuels/gravity/pkg/errors"
)

// appName names the config and cache directories.
const appName = "gravity"

// Config is the whole configuration file.
type Config struct {
	Engine gravity.Config `toml:"engine"`
	Cache  CacheConfig    `toml:"cache"`
	Server ServerConfig   `toml:"server"`
}

// CacheConfig selects the layout and artifact cache.
type CacheConfig struct {
	Backend    string   `toml:"backend" validate:"oneof=none file redis mongo"`
	Dir        string   `toml:"dir,omitempty"`
	URL        string   `toml:"url,omitempty"`
	Database   string   `toml:"database,omitempty"`
	Collection string   `toml:"collection,omitempty"`
	TTL        Duration `toml:"ttl" validate:"gte=0"`
}

// ServerConfig configures `gravity serve`.
type ServerConfig struct {
	Addr string `toml:"addr" validate:"required,hostname_port"`
}

// Duration is a time.Duration written as a Go duration string ("168h").
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Engine: gravity.DefaultConfig(),
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			TTL:     Duration(cache.TTLLayout),
		},
		Server: ServerConfig{Addr: "localhost:8080"},
	}
}

// CacheSettings converts the [cache] section for cache.Open, filling in
// the XDG cache directory for the file backend.
func (c Config) CacheSettings() (cache.Settings, error) {
	s := cache.Settings{
		Backend:    c.Cache.Backend,
		Dir:        c.Cache.Dir,
		URL:        c.Cache.URL,
		Database:   c.Cache.Database,
		Collection: c.Cache.Collection,
	}
	if s.Dir == "" && (s.Backend == cache.BackendFile || s.Backend == "") {
		dir, err := CacheDir()
		if err != nil {
			return s, err
		}
		s.Dir = dir
	}
	return s, nil
}

// =============================================================================
// Load / Write
// =============================================================================

// Load reads the file at path over [Default] and validates the result. A
// missing file yields the defaults. Unknown keys are rejected so that typos
// do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write encodes cfg as TOML at path, creating parent directories.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns the config file location using the XDG standard
// (~/.config/gravity/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the cache directory using the XDG standard
// (~/.cache/gravity/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
