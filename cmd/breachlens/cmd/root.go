// Package cmd provides the CLI commands for breachlens.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "breachlens",
	Short: "Deterministic breach-dataset incident analyzer",
	Long: `Breachlens ingests a batch of security-event records and produces a
data-grounded incident report:
  - A composite risk score with a reproducible justification
  - A reconstructed attack timeline over the kill-chain phases
  - Entity impact rankings for servers and firewalls
  - Narrative findings traceable to computed aggregates

Input is delimited text with a header row, or row objects over HTTP.
The same dataset always yields the same analysis.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./breachlens.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(setupAnalyzeCmd())
	rootCmd.AddCommand(setupPreviewCmd())
	rootCmd.AddCommand(setupServeCmd())
	rootCmd.AddCommand(setupWatchCmd())
}
