package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/trackbump/pkg/bump"
	"github.com/matzehuels/trackbump/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[track]
spacing = 4.5

[bump]
mode = "name-no-interleave"
allocator = "heap"
coordinate_ceiling = 1000.0

[cache]
backend = "none"
ttl = "90m"

[server]
addr = ":9000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Track.Spacing != 4.5 || cfg.Track.BaseWidth != 8 {
		t.Errorf("Track = %+v, want spacing 4.5 with default base width", cfg.Track)
	}
	if cfg.Bump.Mode != bump.ModeAll || cfg.Bump.Allocator != "heap" || cfg.Bump.CoordinateCeiling != 1000 {
		t.Errorf("Bump = %+v", cfg.Bump)
	}
	if cfg.Cache.Backend != CacheNone || cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9000" || cfg.Store.Backend != StoreMemory {
		t.Errorf("Server = %+v, Store = %+v", cfg.Server, cfg.Store)
	}

	eng, err := cfg.Engine()
	if err != nil {
		t.Fatalf("Engine() error = %v", err)
	}
	if eng.Ceiling() != 1000 {
		t.Errorf("Engine().Ceiling() = %v, want 1000", eng.Ceiling())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "[track\n", errors.ErrCodeInvalidConfig},
		{"mode", "[bump]\nmode = \"stacked\"\n", errors.ErrCodeInvalidConfig},
		{"allocator", "[bump]\nallocator = \"arena\"\n", errors.ErrCodeInvalidConfig},
		{"negative width", "[track]\nbase_width = -1.0\n", errors.ErrCodeInvalidConfig},
		{"ceiling", "[bump]\ncoordinate_ceiling = 0.0\n", errors.ErrCodeInvalidConfig},
		{"cache backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidConfig},
		{"ttl", "[cache]\nttl = \"soon\"\n", errors.ErrCodeInvalidConfig},
		{"store backend", "[store]\nbackend = \"sqlite\"\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bump.Mode != bump.ModeOverlap {
		t.Errorf("Load(\"\").Bump.Mode = %v, want overlap", cfg.Bump.Mode)
	}
}

func TestDiscover(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if got := Discover("explicit.toml"); got != "explicit.toml" {
		t.Errorf("Discover(explicit) = %q", got)
	}
	if got := Discover(""); got != "" {
		t.Errorf("Discover() without file = %q, want empty", got)
	}

	path := DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Discover(""); got != path {
		t.Errorf("Discover() = %q, want %q", got, path)
	}
}
