package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/treetui/pkg/cache"
	"github.com/matzehuels/treetui/pkg/observability"
	"github.com/matzehuels/treetui/pkg/server"
	"github.com/matzehuels/treetui/pkg/store"
)

const shutdownTimeout = 10 * time.Second

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		backend string
		dsn     string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tree API over HTTP",
		Long: `Run the HTTP API. Trees posted to /v1/trees are parsed with the same
profiles as the CLI and kept in the configured store (memory, sqlite or mongo).

Examples:
  treetui serve --addr :8080
  treetui serve --store sqlite --dsn trees.db
  curl --data-binary @deps.txt 'localhost:8080/v1/trees?profile=cargo'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := c.config()
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("store") {
				cfg.Server.Store = backend
			}
			if cmd.Flags().Changed("dsn") {
				cfg.Server.DSN = dsn
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			st, err := store.Open(ctx, cfg.Server)
			if err != nil {
				return err
			}
			defer st.Close()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			runner.Keyer = cache.NewScopedKeyer(runner.Keyer, "api:")

			counters := installCounters()

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           server.New(cfg, runner, st, logger, server.WithCounters(counters)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info("listening", "addr", cfg.Server.Addr, "store", cfg.Server.Store, "cache", cfg.Cache.Backend)
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				logger.Info("shutting down")
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&backend, "store", "memory", "document store: memory, sqlite or mongo")
	cmd.Flags().StringVar(&dsn, "dsn", "", "sqlite file or mongodb:// URI")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the parse cache")

	return cmd
}

// installCounters registers fresh counters for /v1/stats. Hooks already in
// place, such as the debug log hooks of --verbose, keep receiving events.
func installCounters() *observability.Counters {
	counters := &observability.Counters{}
	observability.AddPipelineHooks(counters)
	observability.AddCacheHooks(counters)
	observability.SetServerHooks(counters)
	return counters
}
