// Package cli provides the command-line interface for EventSieve.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eventsieve/eventsieve/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		// SilenceErrors keeps cobra from printing it first.
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand creates the root cobra command. Run without a subcommand
// it analyzes a log file.
func NewRootCommand() *cobra.Command {
	opts := &commands.ScanOptions{}

	rootCmd := &cobra.Command{
		Use:   "eventsieve",
		Short: "Scan log files for suspicious activity",
		Long: `EventSieve scans a log file line by line against a list of regex rules
and reports every match with its line number, rule and severity.

Reports are printed to the console and can be saved as text, HTML or JSON.
With --watch the file is followed as it grows; new matches are printed as
they appear and the reports are written again when monitoring stops.

Rules are a list of objects with pattern, description and severity
(low, medium, high or critical), in JSON, YAML or TOML.

Examples:
  eventsieve -l /var/log/auth.log
  eventsieve -l app.log -r rules.yaml -o report.txt --html-output report.html
  eventsieve -l app.log --watch --interval 0.5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().NFlag() == 0 {
				return cmd.Help()
			}
			return commands.RunScan(cmd, opts)
		},
	}

	commands.AddScanFlags(rootCmd, opts)

	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewDiscoverCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
