package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaminalder/undo-tic-tac-toe/internal/app"
	"github.com/jaminalder/undo-tic-tac-toe/internal/metrics"
	"github.com/jaminalder/undo-tic-tac-toe/internal/web"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Serves the browser game, the JSON action endpoint and Prometheus metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				opts.cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts, newHandler(opts))
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")
	return cmd
}

func newHandler(opts *rootOptions) http.Handler {
	m := metrics.New()
	svc := app.NewService(
		app.WithHistoryLimit(opts.cfg.HistoryLimit),
		app.WithSubscriberBuffer(opts.cfg.SubscriberBuffer),
		app.WithLogger(opts.log),
		app.WithMetrics(m),
	)
	return web.NewServer(svc,
		web.WithMetrics(m),
		web.WithHeartbeat(opts.cfg.HeartbeatInterval.Std()),
		web.WithLogger(opts.log),
	)
}

func serve(ctx context.Context, opts *rootOptions, handler http.Handler) error {
	srv := &http.Server{
		Addr:              opts.cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		opts.log.Info("starting server", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		opts.log.Info("shutting down", "cause", context.Cause(ctx))

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			opts.log.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			if err := srv.Close(); err != nil {
				return err
			}
		}
		opts.log.Info("server stopped")
		return nil
	}
}
