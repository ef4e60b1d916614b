// Package config loads trackbump settings from TOML.
//
// A configuration file only needs the keys it changes; everything else
// keeps the value from [Default]:
//
//	[track]
//	base_width = 8.0
//	spacing = 2.0
//
//	[bump]
//	mode = "name-interleave"
//	allocator = "pool"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/trackbump/pkg/bump"
	"github.com/matzehuels/trackbump/pkg/errors"
)

// AppName names the per-user config and cache directories.
const AppName = "trackbump"

// Backends accepted in the [cache] and [store] sections.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"

	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config is the complete configuration.
type Config struct {
	Track  Track  `toml:"track"`
	Bump   Bump   `toml:"bump"`
	Cache  Cache  `toml:"cache"`
	Store  Store  `toml:"store"`
	Server Server `toml:"server"`
}

// Track holds default track dimensions for imported features.
type Track struct {
	BaseWidth    float64 `toml:"base_width"`
	Spacing      float64 `toml:"spacing"`
	XOrigin      float64 `toml:"x_origin"`
	DefaultWidth float64 `toml:"default_width"`
}

// Bump configures the layout engine.
type Bump struct {
	Mode              bump.Mode `toml:"mode"`
	Allocator         string    `toml:"allocator"`
	BatchSize         int       `toml:"batch_size"`
	CoordinateCeiling float64   `toml:"coordinate_ceiling"`
	SplitParts        bool      `toml:"split_parts"`
}

// Cache selects the layout cache backend.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// Store selects where the HTTP service keeps layouts.
type Store struct {
	Backend    string `toml:"backend"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Server configures the HTTP service.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string such as "90m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
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

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Track: Track{
			BaseWidth:    8,
			Spacing:      2,
			DefaultWidth: 8,
		},
		Bump: Bump{
			Mode:              bump.ModeOverlap,
			Allocator:         bump.AllocatorPool,
			BatchSize:         bump.DefaultBatchSize,
			CoordinateCeiling: bump.DefaultCoordinateCeiling,
		},
		Cache: Cache{
			Backend:   CacheFile,
			Dir:       DefaultCacheDir(),
			RedisAddr: "localhost:6379",
			TTL:       Duration{24 * time.Hour},
		},
		Store: Store{
			Backend:    StoreMemory,
			MongoURI:   "mongodb://localhost:27017",
			Database:   AppName,
			Collection: "layouts",
		},
		Server: Server{Addr: ":8080"},
	}
}

// Load reads path on top of Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover returns explicit if set, else the per-user config file if one
// exists, else "".
func Discover(explicit string) string {
	if explicit != "" {
		return explicit
	}
	path := DefaultPath()
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// DefaultPath returns $XDG_CONFIG_HOME/trackbump/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, "config.toml")
}

// DefaultCacheDir returns $XDG_CACHE_HOME/trackbump.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(dir, AppName)
}

// Validate checks every section.
func (c Config) Validate() error {
	for _, w := range []struct {
		name string
		v    float64
	}{
		{"track.base_width", c.Track.BaseWidth},
		{"track.spacing", c.Track.Spacing},
		{"track.default_width", c.Track.DefaultWidth},
	} {
		if err := errors.ValidateWidth(w.name, w.v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s", w.name)
		}
	}
	if !c.Bump.Mode.Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid bump.mode %d", int(c.Bump.Mode))
	}
	switch c.Bump.Allocator {
	case "", bump.AllocatorPool, bump.AllocatorHeap:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid bump.allocator %q (must be one of: pool, heap)", c.Bump.Allocator)
	}
	if c.Bump.BatchSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "bump.batch_size cannot be negative")
	}
	if c.Bump.CoordinateCeiling <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "bump.coordinate_ceiling must be positive")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid cache.backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	switch c.Store.Backend {
	case StoreMemory, StoreMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid store.backend %q (must be one of: memory, mongo)", c.Store.Backend)
	}
	return nil
}

// Engine builds a bump engine from the [bump] section.
func (c Config) Engine() (*bump.Engine, error) {
	alloc, err := bump.NewAllocator(c.Bump.Allocator, c.Bump.BatchSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "bump.allocator")
	}
	return bump.NewEngine(bump.WithAllocator(alloc), bump.WithCeiling(c.Bump.CoordinateCeiling)), nil
}
