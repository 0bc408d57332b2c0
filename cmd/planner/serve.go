package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/resource-planner/api"
	"github.com/warp/resource-planner/store/jsonfile"
)

const shutdownTimeout = 30 * time.Second

func serveCmd(g *globals) *cobra.Command {
	var (
		port  int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API.

On SIGINT/SIGTERM the server stops accepting connections, waits up to 30s
for active requests, stops the scheduler and watcher, and closes the store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("watch") {
				cfg.Watch.Enabled = watch
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			b, err := openBackend(cfg.Storage, logger)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer b.Close()

			handler := api.NewHandler(b.Store, b.Settings, logger)
			if err := handler.Load(ctx); err != nil {
				return err
			}

			if cfg.Watch.Enabled {
				if b.JSON == nil {
					logger.Warn("File watching needs the json backend; ignoring", slog.String("backend", cfg.Storage.Backend))
				} else {
					watcher, err := jsonfile.NewWatcher(b.JSON, cfg.Watch.Debounce, handler.Replace, logger)
					if err != nil {
						return err
					}
					go watcher.Run(ctx)
				}
			}

			scheduler := api.NewReportScheduler(handler, logger)
			scheduler.Enabled = cfg.Report.Enabled
			scheduler.RefreshInterval = cfg.Report.RefreshInterval
			scheduler.Start()
			defer scheduler.Stop()

			server := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:      api.NewRouter(handler, cfg.Server.AllowedOrigins),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Server starting",
					slog.String("addr", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)),
					slog.String("backend", cfg.Storage.Backend))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
			case <-ctx.Done():
			}

			logger.Info("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			logger.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP server port (overrides config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the JSON document when it changes on disk")
	return cmd
}
