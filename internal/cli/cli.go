// Package cli implements the treetui command-line interface.
//
// # Commands
//
//   - view: browse a drawn tree interactively (default when no command is given)
//   - parse: rebuild the tree and write it as JSON or text
//   - render: draw the tree as DOT, SVG or PNG
//   - serve: run the HTTP API
//   - profiles: list parse profiles
//   - cache: manage the parse cache
//
// Input is read from the file named on the command line or from stdin:
//
//	cargo tree --color always | treetui --cargo
//	tree -a | treetui --profile tree
//	treetui parse deps.txt -f json -o deps.json
//
// All commands support --verbose (-v) for debug logging. The logger travels
// through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treetui/pkg/buildinfo"
	"github.com/matzehuels/treetui/pkg/cache"
	"github.com/matzehuels/treetui/pkg/config"
	"github.com/matzehuels/treetui/pkg/observability"
	"github.com/matzehuels/treetui/pkg/pipeline"
)

const appName = "treetui"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Without a subcommand the root behaves like "view".
func (c *CLI) RootCommand() *cobra.Command {
	view := c.viewCommand()

	root := &cobra.Command{
		Use:   appName + " [file]",
		Short: "Browse text-drawn trees in the terminal",
		Long: `treetui rebuilds the hierarchy drawn by tools such as "tree" and "cargo tree"
from indentation and box-drawing connectors, then lets you browse it, export it
or serve it over HTTP.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		Args:              view.Args,
		RunE:              view.RunE,
		PersistentPreRunE: c.setup,
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.Flags().AddFlagSet(view.Flags())

	root.AddCommand(view)
	root.AddCommand(c.parseCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.profilesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if c.Logger.GetLevel() <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// config returns the loaded configuration, falling back to defaults when a
// command runs without the root's pre-run hook.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg := c.config()
	ch, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, loggerFromContext(ctx))
	if ttl, err := cfg.CacheTTL(); err == nil {
		r.TTL = ttl
	}
	return r, nil
}

func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		return rc, nil
	case config.CacheFile:
		fc, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			loggerFromContext(ctx).Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
	return cache.NewNullCache(), nil
}
