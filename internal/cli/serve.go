package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/antopio26/graph-js/pkg/observability"
	"github.com/antopio26/graph-js/pkg/store"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render pipeline over HTTP",
		Long: `Serve the layout and render pipeline over HTTP.

The API accepts specs inline in the request body. POST /api/render returns
artifact bytes, POST /api/layout returns placements as JSON, and /api/scenes
stores rendered results for later retrieval. Scenes live in memory unless a
store URL is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080 otherwise)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if addr == "" {
		addr = c.Config.Serve.Addr
	}

	st, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close(context.Background()) //nolint:errcheck

	srv := newServer(runner, st, c.Logger)
	if c.Config.Serve.Metrics {
		m := observability.NewMetrics(appName)
		m.Install()
		srv.metrics = m
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	c.Logger.Info("Serving HTTP API", "addr", addr)
	printInfo("Listening on %s", addr)
	printDetail("Press Ctrl-C to stop")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		printInfo("Stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	}
}

// openStore picks the scene storage backend from config. Without a store
// URL scenes live in process memory and vanish on exit.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	if c.Config.Store.URL != "" {
		return store.NewMongoStore(ctx, c.Config.Store.URL, c.Config.Store.Database, c.Config.Store.Collection)
	}
	return store.NewMemoryStore(), nil
}
