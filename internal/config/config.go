// Package config loads and saves the jsonviz configuration file.
//
// The file lives at $XDG_CONFIG_HOME/jsonviz/config.toml (falling back to
// ~/.config/jsonviz/config.toml). A missing file yields the defaults; a
// malformed one is an error. Command-line flags override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/layout"
	"github.com/matzehuels/jsonviz/pkg/pipeline"
)

// AppName names the config and cache directories.
const AppName = "jsonviz"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Session backends.
const (
	SessionsMemory = "memory"
	SessionsFile   = "file"
	SessionsMongo  = "mongo"
)

// Config holds jsonviz configuration.
type Config struct {
	Layout   layout.Options `toml:"layout"`
	Render   RenderConfig   `toml:"render"`
	Server   ServerConfig   `toml:"server"`
	Cache    CacheConfig    `toml:"cache"`
	Sessions SessionsConfig `toml:"sessions"`
}

// RenderConfig controls output defaults.
type RenderConfig struct {
	Style          string   `toml:"style"`
	ViewportWidth  float64  `toml:"viewport_width"`
	ViewportHeight float64  `toml:"viewport_height"`
	Formats        []string `toml:"formats"`
	Scale          float64  `toml:"scale"`
}

// ServerConfig controls the interactive host.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	OpenBrowser bool     `toml:"open_browser"`
	Editor      bool     `toml:"editor"`
	IdleTimeout Duration `toml:"idle_timeout"`
}

// CacheConfig controls the artifact and source cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"` // "file", "redis", "none"
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	Prefix        string   `toml:"prefix"`
	TTL           Duration `toml:"ttl"`
}

// SessionsConfig controls where interactive sessions are persisted.
type SessionsConfig struct {
	Backend    string   `toml:"backend"` // "memory", "file", "mongo"
	Dir        string   `toml:"dir"`
	MongoURI   string   `toml:"mongo_uri"`
	Database   string   `toml:"database"`
	Collection string   `toml:"collection"`
	TTL        Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a string such as "24h" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Layout: layout.DefaultOptions(),
		Render: RenderConfig{
			Style:          pipeline.DefaultStyle,
			ViewportWidth:  pipeline.DefaultWidth,
			ViewportHeight: pipeline.DefaultHeight,
			Formats:        []string{pipeline.FormatSVG},
			Scale:          pipeline.DefaultScale,
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8080",
			OpenBrowser: true,
			Editor:      true,
			IdleTimeout: Duration{30 * time.Minute},
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Sessions: SessionsConfig{
			Backend:    SessionsMemory,
			Database:   "jsonviz",
			Collection: "sessions",
			TTL:        Duration{24 * time.Hour},
		},
	}
}

// Dir returns the jsonviz config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, AppName)
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the default cache directory
// ($XDG_CACHE_HOME/jsonviz, falling back to ~/.cache/jsonviz).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the config file at Path.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config file at path. A missing file yields the
// defaults. Keys absent from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid config %s", path)
	}
	cfg.Layout.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if err := pipeline.ValidateStyle(c.Render.Style); err != nil {
		return err
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	if err := errors.ValidateOneOf(errors.ErrCodeInvalidInput, "cache.backend", c.Cache.Backend,
		CacheFile, CacheRedis, CacheNone); err != nil {
		return err
	}
	return errors.ValidateOneOf(errors.ErrCodeInvalidInput, "sessions.backend", c.Sessions.Backend,
		SessionsMemory, SessionsFile, SessionsMongo)
}

// Save writes cfg to Path.
func Save(cfg *Config) error {
	return SaveFile(cfg, Path())
}

// SaveFile writes cfg to path, creating its directory.
func SaveFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// PipelineOptions returns the pipeline options described by c.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Layout:  c.Layout,
		Width:   c.Render.ViewportWidth,
		Height:  c.Render.ViewportHeight,
		Formats: append([]string(nil), c.Render.Formats...),
		Style:   c.Render.Style,
		Scale:   c.Render.Scale,
	}
}
