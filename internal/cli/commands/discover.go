package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eventsieve/eventsieve/pkg/discover"
)

// DiscoverOptions holds discover command flags.
type DiscoverOptions struct {
	ReadableOnly bool
	Type         string
	JSON         bool
}

type discoveredLog struct {
	Path     string    `json:"path"`
	Type     string    `json:"type"`
	SizeMB   float64   `json:"size_mb"`
	Modified time.Time `json:"modified"`
	Readable bool      `json:"readable"`
}

// NewDiscoverCommand creates the discover command.
func NewDiscoverCommand() *cobra.Command {
	opts := &DiscoverOptions{}

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List system log files found on this host",
		Long: `Look for well-known system log files (authentication, syslog, kernel,
web and database servers, mail, cron) and report their type, size,
modification time and whether they can be read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(cmd, opts, discover.NewScanner())
		},
	}

	cmd.Flags().BoolVar(&opts.ReadableOnly, "readable-only", false, "Only list files that can be read")
	cmd.Flags().StringVar(&opts.Type, "type", "", "Only list logs whose type contains this text (e.g. auth, web)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the result as JSON")

	return cmd
}

func runDiscover(cmd *cobra.Command, opts *DiscoverOptions, scanner *discover.Scanner) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	logs, err := scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("discovering logs: %w", err)
	}
	logs = filterLogs(logs, opts)

	if opts.JSON {
		found := make([]discoveredLog, 0, len(logs))
		for _, l := range logs {
			found = append(found, discoveredLog{
				Path:     l.Path,
				Type:     l.Type,
				SizeMB:   l.SizeMB(),
				Modified: l.ModTime,
				Readable: l.Readable,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(found)
	}

	if len(logs) == 0 {
		fmt.Fprintln(out, "No system log files found on this system.")
		return nil
	}

	fmt.Fprintf(out, "Found %d system log files:\n", len(logs))
	fmt.Fprintln(out, strings.Repeat("=", 80))
	for i, l := range logs {
		access := "readable"
		if !l.Readable {
			access = "no read permission"
		}
		fmt.Fprintf(out, "%2d. %s (%s)\n", i+1, l.Type, access)
		fmt.Fprintf(out, "    Path: %s\n", l.Path)
		fmt.Fprintf(out, "    Size: %.2f MB\n", l.SizeMB())
		fmt.Fprintf(out, "    Modified: %s\n\n", l.ModTime.Format(time.DateTime))
	}
	return nil
}

func filterLogs(logs []discover.Log, opts *DiscoverOptions) []discover.Log {
	want := strings.ToLower(opts.Type)
	var kept []discover.Log
	for _, l := range logs {
		if opts.ReadableOnly && !l.Readable {
			continue
		}
		if want != "" && !strings.Contains(strings.ToLower(l.Type), want) {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}
