package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trackbump/pkg/buildinfo"
	"github.com/matzehuels/trackbump/pkg/cache"
	"github.com/matzehuels/trackbump/pkg/config"
	"github.com/matzehuels/trackbump/pkg/observability"
	"github.com/matzehuels/trackbump/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs. Flags set on the command
	// line override its values.
	Config     config.Config
	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "trackbump lays out overlapping genome features in columns",
		Long: `trackbump assigns overlapping features of a genome track to side-by-side
columns ("bumping") so that no two features in the same column overlap,
using as few columns as the data allows.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			hooks := LogHooks{Logger: c.Logger}
			observability.SetBumpHooks(hooks)
			observability.SetCacheHooks(hooks)
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")

	root.AddCommand(c.bumpCommand())
	root.AddCommand(c.modesCommand())
	root.AddCommand(c.benchCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config, or the per-user file when present.
func (c *CLI) loadConfig() error {
	path := config.Discover(c.configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache and
// engine.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	engine, err := c.Config.Engine()
	if err != nil {
		cch.Close()
		return nil, err
	}
	r := pipeline.NewRunner(cch, nil, engine, c.Logger)
	if ttl := c.Config.Cache.TTL.Duration; ttl > 0 {
		r.LayoutTTL = ttl
	}
	return r, nil
}

// newCache opens the configured cache backend. A file cache that cannot be
// created falls back to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect to redis cache: %w", err)
		}
		return rc, nil
	default:
		fc, err := cache.NewFileCache(c.cacheDir())
		if err != nil {
			c.Logger.Warn("cache disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// cacheDir returns the configured file cache directory.
func (c *CLI) cacheDir() string {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir
	}
	return config.DefaultCacheDir()
}
