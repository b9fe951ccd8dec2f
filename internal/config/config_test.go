package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/jsonviz/pkg/errors"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[layout]
padding = 20

[render]
style = "dark"
formats = ["svg", "png"]

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "2h"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.Padding != 20 || cfg.Layout.LineHeight != 18 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Render.Style != "dark" || cfg.Render.ViewportWidth != 1200 {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.TTL.Duration != 2*time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Sessions.Backend != SessionsMemory {
		t.Errorf("sessions = %+v", cfg.Sessions)
	}

	opts := cfg.PipelineOptions()
	if opts.Style != "dark" || opts.Layout.Padding != 20 || len(opts.Formats) != 2 {
		t.Errorf("pipeline options = %+v", opts)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"malformed", "[render\nstyle=", errors.ErrCodeParse},
		{"bad duration", "[cache]\nttl = \"soon\"", errors.ErrCodeParse},
		{"bad style", "[render]\nstyle = \"neon\"", errors.ErrCodeInvalidStyle},
		{"bad format", "[render]\nformats = [\"gif\"]", errors.ErrCodeInvalidFormat},
		{"bad backend", "[sessions]\nbackend = \"sqlite\"", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			os.WriteFile(path, []byte(tt.content), 0o644)
			if _, err := LoadFile(path); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Server.Addr = ":9000"
	cfg.Sessions.TTL = Duration{90 * time.Minute}

	if err := SaveFile(cfg, path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")

	if got := Path(); got != "/tmp/cfg/jsonviz/config.toml" {
		t.Errorf("Path() = %s", got)
	}
	dir, err := CacheDir()
	if err != nil || dir != "/tmp/cache/jsonviz" {
		t.Errorf("CacheDir() = %s, %v", dir, err)
	}
}
