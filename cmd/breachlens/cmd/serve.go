package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"breachlens/internal/config"
	"breachlens/internal/ingestion"
	"breachlens/internal/logging"
	"breachlens/internal/server"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Addr    string
	Dataset string
	DSN     string
}

// ServeRunner hosts the HTTP analysis service.
type ServeRunner struct {
	options *ServeOptions
	cfg     *config.Config
	logger  *zap.Logger
	store   *ingestion.Store
}

// NewServeRunner loads configuration and prepares the service.
func NewServeRunner(opts *ServeOptions) (*ServeRunner, error) {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Flags win over the config file.
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
	}
	if opts.Dataset != "" {
		cfg.Server.DefaultDataset = opts.Dataset
	}
	if opts.DSN != "" {
		cfg.Store.DSN = opts.DSN
	}

	logCfg := &logging.Config{
		Level:         cfg.Logging.Level,
		LogDir:        cfg.Logging.Dir,
		LogFile:       cfg.Logging.File,
		MaxSizeMB:     cfg.Logging.MaxSizeMB,
		MaxBackups:    cfg.Logging.MaxBackups,
		MaxAgeDays:    cfg.Logging.MaxAgeDays,
		EnableConsole: cfg.Logging.EnableConsole,
		EnableFile:    cfg.Logging.EnableFile,
		ConsoleFormat: "plain",
	}
	if verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Setup(logCfg); err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	logger := logging.L().With(
		zap.String("command", "serve"),
		zap.String("addr", cfg.Server.Addr),
	)

	runner := &ServeRunner{
		options: opts,
		cfg:     cfg,
		logger:  logger,
	}

	if cfg.Store.DSN != "" {
		store, err := ingestion.OpenStore(cfg.Store.DSN, logger)
		if err != nil {
			return nil, err
		}
		runner.store = store
	}

	return runner, nil
}

// Run serves HTTP until a shutdown signal arrives.
func (r *ServeRunner) Run(ctx context.Context) error {
	r.logger.Info("server_starting",
		zap.String("default_dataset", r.cfg.Server.DefaultDataset),
		zap.Bool("store_enabled", r.store != nil),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		r.logger.Info("received_signal", zap.String("signal", sig.String()))
		cancel()
	}()

	srv := server.New(r.cfg, r.store, r.logger)
	httpSrv := &http.Server{
		Addr:    r.cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("server_stopping")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), r.cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("shutdown_incomplete", zap.Error(err))
	}

	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.logger.Warn("store_close_failed", zap.Error(err))
		}
	}

	r.logger.Info("server_stopped")
	return nil
}

// RunServeCommand executes the serve command with the given options.
func RunServeCommand(opts *ServeOptions) error {
	runner, err := NewServeRunner(opts)
	if err != nil {
		return err
	}
	defer func() { _ = logging.Close() }()

	return runner.Run(context.Background())
}

// setupServeCmd configures the serve command.
func setupServeCmd() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the breach analysis HTTP service",
		Long: `Start the HTTP service exposing analysis, preview, logs, and system-status
endpoints, plus Prometheus metrics on /metrics.

Examples:
  breachlens serve
  breachlens serve --addr :9090 --dataset faulty_logs_100.csv
  breachlens serve --config breachlens.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunServeCommand(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&opts.Dataset, "dataset", "", "default dataset path for analyze requests without a body")
	cmd.Flags().StringVar(&opts.DSN, "dsn", "", "Postgres connection string for the historical log store")

	return cmd
}
