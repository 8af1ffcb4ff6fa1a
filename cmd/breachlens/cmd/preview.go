package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"breachlens/internal/ingestion"
	"breachlens/internal/logging"
)

// PreviewOptions holds options for the preview command.
type PreviewOptions struct {
	Path  string
	Limit int
}

// RunPreviewCommand reads a dataset and prints its first rows.
func RunPreviewCommand(opts *PreviewOptions) error {
	logCfg := logging.DefaultConfig()
	logCfg.EnableFile = false
	if verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Setup(logCfg); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer func() { _ = logging.Close() }()

	rows, err := ingestion.ReadCSVFile(opts.Path)
	if err != nil {
		return err
	}

	limit := opts.Limit
	if limit <= 0 || limit > len(rows) {
		limit = len(rows)
	}

	out := map[string]any{
		"file":      opts.Path,
		"totalRows": len(rows),
		"preview":   rows[:limit],
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// setupPreviewCmd configures the preview command.
func setupPreviewCmd() *cobra.Command {
	opts := &PreviewOptions{}

	cmd := &cobra.Command{
		Use:   "preview [path]",
		Short: "Show the first rows of a breach dataset",
		Long: `Read a dataset file and print its row count plus the first rows as JSON.

Examples:
  breachlens preview faulty_logs_100.csv
  breachlens preview faulty_logs_100.csv --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			return RunPreviewCommand(opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "maximum number of rows to show")

	return cmd
}
