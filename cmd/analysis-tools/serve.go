package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	analysistools "github.com/rtxi/analysis-tools"
	"github.com/rtxi/analysis-tools/internal/cli"
	"github.com/rtxi/analysis-tools/internal/presentation/tui"
	httpAdapter "github.com/rtxi/analysis-tools/pkg/adapters/http"
	"github.com/rtxi/analysis-tools/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Serves one panel over a JSON API, with server-sent events for state changes and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := cfg.HTTP.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}
		sessionID, _ := cmd.Flags().GetString("session")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		metrics := observability.NewMetrics()
		streams := httpAdapter.NewStreamManager(logger)
		extra := []analysistools.Option{analysistools.WithChangeListener(streams.Publish)}
		if sessionID != "" {
			extra = append(extra, analysistools.WithSessionID(sessionID))
		}
		panel, persistence, err := openPanel(ctx, metrics, extra...)
		if err != nil {
			return err
		}
		defer persistence.Close()

		srv := &http.Server{
			Addr: fmt.Sprintf(":%d", port),
			Handler: httpAdapter.NewHandler(panel,
				httpAdapter.WithLogger(logger),
				httpAdapter.WithMetrics(metrics),
				httpAdapter.WithStreams(streams),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			tui.PrintBanner(os.Stderr, analysistools.Version)
			logger.Info("HTTP server listening", "address", srv.Addr, "session_id", panel.SessionID(), "store", cfg.Store.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("shutdown started", "signal", ctx.Signal())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("HTTP server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("session", "", "Session ID of the served panel")
}
