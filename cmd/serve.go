package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/giygas/drugs-eda/data"
	"github.com/giygas/drugs-eda/dataset"
	"github.com/giygas/drugs-eda/health"
	"github.com/giygas/drugs-eda/logging"
	"github.com/giygas/drugs-eda/scheduler"
	"github.com/giygas/drugs-eda/server"
)

const shutdownTimeout = 30 * time.Second

var (
	serveData string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard over the cleaned dataset",
	Long: `serve loads the cleaned CSV written by clean and serves the dashboard: the
filtered preview, the JSON view, the per-selection charts, /health and /metrics.

With RELOAD_INTERVAL set, the file is re-read whenever it changed on disk.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveData, "data", "", "cleaned CSV to serve (overrides CLEANED_PATH)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	c := *cfg
	if servePort != "" {
		c.Port = servePort
		if err := c.Validate(); err != nil {
			return err
		}
	}
	path := firstNonEmpty(serveData, c.CleanedPath)

	dc := data.NewDataContainer()
	sched := scheduler.NewScheduler(dc, dataset.NewCSVLoader(), path, c.ReloadInterval)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	srv := server.NewServer(&c, dc, health.NewHealthChecker(dc, sched.NextReload))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logging.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return <-errCh
}
