package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"breachlens/internal/analysis"
	"breachlens/internal/ingestion"
	"breachlens/internal/logging"
	"breachlens/internal/models"
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Path     string
	Debounce time.Duration
	Pretty   bool
}

// DefaultWatchOptions returns the default watch options.
func DefaultWatchOptions() *WatchOptions {
	return &WatchOptions{
		Debounce: 2 * time.Second,
	}
}

// WatchRunner follows a growing dataset and re-analyzes it after each
// quiet period.
type WatchRunner struct {
	options *WatchOptions
	logger  *zap.Logger
}

// NewWatchRunner creates a watch runner with logging configured.
func NewWatchRunner(opts *WatchOptions) (*WatchRunner, error) {
	if opts == nil {
		opts = DefaultWatchOptions()
	}

	logCfg := logging.DefaultConfig()
	logCfg.ConsoleFormat = "plain"
	if verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Setup(logCfg); err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	return &WatchRunner{
		options: opts,
		logger: logging.L().With(
			zap.String("command", "watch"),
			logging.Path(opts.Path),
		),
	}, nil
}

// Run tails the dataset until interrupted.
func (r *WatchRunner) Run(ctx context.Context) error {
	r.logger.Info("watch_starting",
		zap.Duration("debounce", r.options.Debounce),
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

	err := ingestion.Watch(ctx, ingestion.WatchConfig{
		Path:     r.options.Path,
		Debounce: r.options.Debounce,
		Logger:   r.logger,
	}, r.reanalyze)

	if errors.Is(err, context.Canceled) {
		r.logger.Info("watch_stopped")
		return nil
	}
	return err
}

// reanalyze runs the pipeline over the accumulated rows and prints the report.
func (r *WatchRunner) reanalyze(rows []models.RowMap) {
	start := time.Now()

	report, err := analysis.AnalyzeRows(rows)
	if err != nil {
		r.logger.Warn("analysis_failed", zap.Error(err))
		return
	}

	r.logger.Info("analysis_complete",
		logging.ReportID(report.BreachID),
		logging.RecordCount(report.Meta.TotalEvents),
		logging.RiskScore(report.RiskScore),
		logging.Duration(time.Since(start)),
	)

	var data []byte
	if r.options.Pretty {
		data, err = report.ToPrettyJSON()
	} else {
		data, err = report.ToJSON()
	}
	if err != nil {
		r.logger.Warn("encode_failed", zap.Error(err))
		return
	}
	fmt.Println(string(data))
}

// RunWatchCommand executes the watch command with the given options.
func RunWatchCommand(opts *WatchOptions) error {
	runner, err := NewWatchRunner(opts)
	if err != nil {
		return err
	}
	defer func() { _ = logging.Close() }()

	return runner.Run(context.Background())
}

// setupWatchCmd configures the watch command.
func setupWatchCmd() *cobra.Command {
	opts := DefaultWatchOptions()

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Follow a growing dataset and re-analyze on change",
		Long: `Tail a CSV dataset and re-run the full analysis after each quiet period,
printing a fresh report whenever new rows arrive.

Examples:
  breachlens watch live_logs.csv
  breachlens watch live_logs.csv --debounce 5s --pretty`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			return RunWatchCommand(opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", opts.Debounce, "quiet period before re-analysis")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "indent the JSON output")

	return cmd
}
