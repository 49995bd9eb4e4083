package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

const testRules = `[
  {"pattern": "Failed password for", "description": "Failed login attempt", "severity": "high"},
  {"pattern": "(?i)sudo: .*COMMAND", "description": "Sudo command executed", "severity": "medium"},
  {"pattern": "segfault", "description": "Process crashed", "severity": "critical"}
]`

const testLog = `Jan 10 10:00:01 host sshd[100]: Accepted publickey for alice
Jan 10 10:00:02 host sshd[101]: Failed password for root from 10.0.0.5

Jan 10 10:00:04 host sudo: bob : TTY=pts/0 ; COMMAND=/bin/ls
`

// isolate runs the test in an empty working and home directory so no
// settings file or environment leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// newScanCommand builds a root-like command around RunScan.
func newScanCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	opts := &ScanOptions{}
	cmd := &cobra.Command{
		Use:           "eventsieve",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunScan(cmd, opts)
		},
	}
	AddScanFlags(cmd, opts)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	return cmd, &stdout, &stderr
}
