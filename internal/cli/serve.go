package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"instafetch/internal/config"
	"instafetch/internal/server"
	"instafetch/internal/telemetry"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP extraction API",
	Long: `Start an HTTP server that resolves Instagram links via API.

Examples:
  instafetch serve            # Start server on port 8080
  instafetch serve -p 9000    # Start server on port 9000

API Endpoints:
  GET  /api/health            # Health check
  POST /api/extract           # Resolve a link: {"url": "...", "tool": "..."}`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP listen port (default: 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg := config.LoadOrDefault()
	logger := newLogger(verbose)

	// Resolve port (flag > config > default)
	port := servePort
	if port == 0 {
		if cfg.Server.Port > 0 {
			port = cfg.Server.Port
		} else {
			port = 8080
		}
	}

	var recorder telemetry.Recorder = telemetry.Nop{}
	if cfg.TelemetryLog != "" {
		r, err := telemetry.NewFileRecorder(cfg.TelemetryLog)
		if err != nil {
			return err
		}
		recorder = r
	}

	pipeline := newPipeline(cfg, logger)
	srv := server.NewServer(port, cfg.Server.APIKey, pipeline, recorder, logger)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Stop(ctx)
	}()

	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
