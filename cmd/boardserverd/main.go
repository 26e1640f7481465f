// Command boardserverd runs the collaborative whiteboard's board engine:
// it loads configuration, wires BoardManager/SessionRegistry/metrics
// together, and keeps every loaded board autosaved until told to stop.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/oe149499/whiteboard/internal/config"
	"github.com/oe149499/whiteboard/internal/logger"
	"github.com/oe149499/whiteboard/internal/manager"
	"github.com/oe149499/whiteboard/internal/metrics"
	"github.com/oe149499/whiteboard/internal/store/fsstore"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "boardserverd",
		Short: "Board engine for the collaborative whiteboard server",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: ./board-server.yaml)")

	root.AddCommand(newServeCommand(&configPath))
	root.AddCommand(newVersionCommand())

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "boardserverd %s (commit: %s)\n", version, commit)
			return nil
		},
	}
}

func newServeCommand(configPath *string) *cobra.Command {
	var workersOverride int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the board engine until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath, workersOverride)
		},
	}
	cmd.Flags().IntVar(&workersOverride, "workers-per-board", 0, "override boards.workers_per_board from config")
	return cmd
}

func runServe(configPath string, workersOverride int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if workersOverride > 0 {
		cfg.Boards.WorkersPerBoard = workersOverride
	}

	if err := logger.Init(cfg.Logging.ToLoggerConfig()); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		m = metrics.New()
		go serveMetrics(cfg.Metrics.ListenAddr)
		logger.Info("metrics enabled", "listen_addr", cfg.Metrics.ListenAddr)
	} else {
		logger.Info("metrics disabled")
	}

	if err := os.MkdirAll(cfg.Boards.Root, 0o755); err != nil {
		return fmt.Errorf("create boards root: %w", err)
	}
	st := fsstore.New(cfg.Boards.Root)
	mgr := manager.New(st, cfg.Boards.WorkersPerBoard, cfg.Boards.CreateOnMiss, m)

	logger.Info("board engine starting",
		"boards_root", cfg.Boards.Root,
		"workers_per_board", cfg.Boards.WorkersPerBoard,
		"autosave_interval", cfg.Boards.AutosaveInterval.String(),
	)

	autosaveDone := runAutosaveLoop(ctx, mgr, cfg.Boards.AutosaveInterval)

	logger.Info("board engine running, press Ctrl+C to stop")
	<-ctx.Done()
	logger.Info("shutdown signal received")

	<-autosaveDone
	logger.Info("board engine stopped")
	return nil
}

// runAutosaveLoop ticks mgr.Autosave on interval until ctx is cancelled,
// saving once more on the way out so a shutdown never loses the last
// interval's edits. The returned channel closes once the final save
// completes.
func runAutosaveLoop(ctx context.Context, mgr *manager.Manager, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				mgr.Autosave(context.Background())
				return
			case <-ticker.C:
				mgr.Autosave(ctx)
			}
		}
	}()
	return done
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server stopped", logger.KeyError, err.Error())
	}
}
