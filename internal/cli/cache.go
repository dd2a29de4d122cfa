package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treetui/pkg/cache"
	"github.com/matzehuels/treetui/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the parse cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()
			w := cmd.OutOrStdout()

			var where string
			switch cfg.Cache.Backend {
			case config.CacheFile:
				where = cfg.Cache.Dir
			case config.CacheRedis:
				where = cfg.Cache.RedisURL
			default:
				printInfo(w, "Caching is disabled")
				return nil
			}

			ch, err := newCache(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer ch.Close()
			clr, ok := ch.(cache.Clearer)
			if !ok {
				return fmt.Errorf("%s cache cannot be cleared", cfg.Cache.Backend)
			}
			n, err := clr.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			if n == 0 {
				printInfo(w, "Cache is empty")
			} else {
				printSuccess(w, "Cleared %d cached entries", n)
			}
			printDetail(w, "Location: %s", where)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			if cfg.Cache.Backend != config.CacheFile {
				printInfo(cmd.ErrOrStderr(), "%s", StyleWarning.Render("cache backend is "+cfg.Cache.Backend))
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Dir)
			return nil
		},
	}
}
