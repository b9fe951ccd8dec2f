// Package cli implements the jsonviz command-line interface.
//
// # Commands
//
//   - render: draw a document to SVG, HTML, JSON, DOT, PNG or PDF
//   - serve: host interactive sessions in the browser
//   - explore: browse a document as a collapsible outline in the terminal
//   - cache: inspect and clear the render cache
//   - config: show, create or locate the configuration file
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Debug logging
// also registers observability hooks that trace every pass, render and cache
// access.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonviz/internal/config"
	"github.com/matzehuels/jsonviz/pkg/buildinfo"
	"github.com/matzehuels/jsonviz/pkg/cache"
	"github.com/matzehuels/jsonviz/pkg/observability"
	"github.com/matzehuels/jsonviz/pkg/pipeline"
	"github.com/matzehuels/jsonviz/pkg/source"
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

	// Config is loaded before any command runs.
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
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
		Short: "jsonviz draws nested JSON as a collapsible node-link tree",
		Long: `jsonviz draws nested JSON and YAML documents as node-link trees: every
object or array is a box listing its primitive fields, and container
children hang off dots on their parent's rows. Draw a document to a file,
or explore it interactively in the browser or the terminal.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies --verbose and loads the configuration file.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		observability.RegisterLogHooks(c.Logger)
	}

	cfg, err := config.LoadFile(c.configFile())
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", c.configFile())
	return nil
}

func (c *CLI) configFile() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.Path()
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	runner := pipeline.NewRunner(c.newCache(ctx, noCache), nil, c.Logger)
	runner.TTL = c.Config.Cache.TTL.Duration
	return runner
}

// newCache opens the configured cache backend. An unusable backend is
// reported and replaced by a NullCache so that rendering still works.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}

	cfg := c.Config.Cache
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache()
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.Prefix,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "addr", cfg.RedisAddr, "error", err)
			return cache.NewNullCache()
		}
		return rc
	}

	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "dir", dir, "error", err)
		return cache.NewNullCache()
	}
	return fc
}

// newLoader returns a document loader sharing the runner's cache.
func (c *CLI) newLoader(cache cache.Cache, format string) *source.Loader {
	return &source.Loader{
		Cache:  cache,
		Stdin:  os.Stdin,
		Format: format,
		Logger: c.Logger,
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, defaulting to the XDG
// location (~/.cache/jsonviz/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return config.CacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// Empty input yields nil so that the configured formats apply.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
