package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/llm-council/internal/adapters/httpapi"
	"github.com/bnema/llm-council/internal/version"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(app *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the council HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			addr := listen
			if addr == "" {
				addr = app.config.Server.Listen
			}

			listener, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "council API listening on http://%s\n", listener.Addr())
			return serve(ctx, app, listener)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (defaults to server.listen)")

	return cmd
}

// serve runs the API on listener until ctx is done, then drains in-flight
// requests for up to server.shutdown_timeout.
func serve(ctx context.Context, app *app, listener net.Listener) error {
	api := httpapi.NewServer(app.orchestrator,
		httpapi.WithProviders(app.providers),
		httpapi.WithTemplates(app.templates),
		httpapi.WithArchetypes(app.archetypes),
		httpapi.WithFileIngestor(app.files),
		httpapi.WithLogger(app.logger),
		httpapi.WithVersion(version.Version),
	)

	// No WriteTimeout: session streams stay open for the whole run.
	server := &http.Server{
		Handler:           api.Handler(),
		ReadHeaderTimeout: app.config.Server.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		app.logger.Info("http server started", "addr", listener.Addr().String())
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		defer cancel()

		app.logger.Info("http server shutting down")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	return group.Wait()
}
