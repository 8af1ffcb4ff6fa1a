package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"breachlens/internal/analysis"
	"breachlens/internal/ingestion"
	"breachlens/internal/logging"
	"breachlens/internal/models"
	"breachlens/internal/normalize"
)

// AnalyzeOptions holds options for the analyze command.
type AnalyzeOptions struct {
	Path    string
	Pretty  bool
	Output  string
	Summary bool
}

// AnalyzeRunner executes one analysis over a dataset file or stdin.
type AnalyzeRunner struct {
	options *AnalyzeOptions
	logger  *zap.Logger
}

// NewAnalyzeRunner creates a runner with logging configured.
func NewAnalyzeRunner(opts *AnalyzeOptions) (*AnalyzeRunner, error) {
	logCfg := logging.DefaultConfig()
	logCfg.EnableFile = false
	if verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Setup(logCfg); err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	return &AnalyzeRunner{
		options: opts,
		logger: logging.L().With(
			zap.String("command", "analyze"),
			logging.Path(opts.Path),
		),
	}, nil
}

// Run loads the dataset, runs the pipeline once, and writes the report.
func (r *AnalyzeRunner) Run() error {
	start := time.Now()

	rows, err := r.loadRows()
	if err != nil {
		return err
	}

	report, err := analysis.AnalyzeRows(rows)
	if err != nil {
		return err
	}

	r.logger.Info("analysis_complete",
		logging.ReportID(report.BreachID),
		logging.RecordCount(report.Meta.TotalEvents),
		logging.RiskScore(report.RiskScore),
		logging.Duration(time.Since(start)),
	)

	if r.options.Summary {
		fmt.Printf("%s  risk %.1f/10  events %d  corrupted %d  window %.2fs\n",
			report.BreachID,
			report.RiskScore,
			report.Meta.TotalEvents,
			report.Meta.CorruptedCount,
			report.Meta.DurationSeconds,
		)
		return nil
	}

	return r.writeReport(report)
}

func (r *AnalyzeRunner) loadRows() ([]models.RowMap, error) {
	if r.options.Path == "-" {
		text, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return normalize.ParseCSV(string(text))
	}
	return ingestion.ReadCSVFile(r.options.Path)
}

func (r *AnalyzeRunner) writeReport(report *models.BreachReport) error {
	var data []byte
	var err error
	if r.options.Pretty {
		data, err = report.ToPrettyJSON()
	} else {
		data, err = report.ToJSON()
	}
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if r.options.Output != "" {
		if err := os.WriteFile(r.options.Output, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		r.logger.Info("report_written", logging.Path(r.options.Output))
		return nil
	}

	fmt.Println(string(data))
	return nil
}

// RunAnalyzeCommand executes the analyze command with the given options.
func RunAnalyzeCommand(opts *AnalyzeOptions) error {
	runner, err := NewAnalyzeRunner(opts)
	if err != nil {
		return err
	}
	defer func() { _ = logging.Close() }()

	return runner.Run()
}

// setupAnalyzeCmd configures the analyze command.
func setupAnalyzeCmd() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a breach dataset and emit the incident report",
		Long: `Analyze the dataset at the given path and print the incident report as JSON.

Examples:
  breachlens analyze faulty_logs_100.csv
  breachlens analyze faulty_logs_100.csv --pretty
  breachlens analyze - < dataset.csv   (read from stdin)
  breachlens analyze dataset.csv --out report.json
  breachlens analyze dataset.csv --summary`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			return RunAnalyzeCommand(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "indent the JSON output")
	cmd.Flags().StringVar(&opts.Output, "out", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.Summary, "summary", false, "print a one-line summary instead of the full report")

	return cmd
}
