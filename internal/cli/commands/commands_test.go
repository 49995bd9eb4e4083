package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"

	"github.com/eventsieve/eventsieve/pkg/discover"
)

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	if cmd.Use != "validate <rules-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	if !strings.Contains(cmd.Long, "Validate") {
		t.Error("Missing description in Long")
	}
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()

	if cmd.Use != "version" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if buf.String() != "eventsieve dev\n" {
		t.Errorf("Output = %q", buf.String())
	}
}

func TestRunValidate_Success(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeTempFile(t, dir, "rules.json", testRules)

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{rulesPath})

	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	out := buf.String()
	for _, w := range []string{"Rules (3, format json):", "1. [high] Failed login attempt", "3. [critical] Process crashed", "Rules file valid!"} {
		if !strings.Contains(out, w) {
			t.Errorf("Output missing %q:\n%s", w, out)
		}
	}
}

func TestRunValidate_TOML(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeTempFile(t, dir, "rules.toml", `
[[rules]]
pattern = "Failed password"
description = "Failed login"
severity = "high"
`)

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{rulesPath})
	cmd.SetOut(&bytes.Buffer{})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestRunValidate_InvalidPattern(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeTempFile(t, dir, "rules.json", `[
  {"pattern": "ok", "description": "fine", "severity": "low"},
  {"pattern": "(unclosed", "description": "broken", "severity": "low"}
]`)

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{rulesPath})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	err := cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "1 rule(s) have invalid patterns") {
		t.Errorf("error = %v", err)
	}
	if !strings.Contains(buf.String(), "invalid pattern:") {
		t.Errorf("Output missing pattern error:\n%s", buf.String())
	}
}

func TestRunValidate_InvalidRules(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeTempFile(t, dir, "rules.json", `[{"pattern": "x", "severity": "low"}]`)

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{rulesPath})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("error = %v", err)
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	cmd := NewValidateCommand()
	cmd.SetArgs([]string{"/nonexistent/rules.json"})
	cmd.SetOut(&bytes.Buffer{})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Expected error for missing file")
	}
}

func discoverFixture() *discover.Scanner {
	fsys := fstest.MapFS{
		"var/log/auth.log":         {Data: []byte("auth\n")},
		"var/log/syslog":           {Data: make([]byte, 3*1024*1024)},
		"var/log/nginx/access.log": {Data: []byte("GET /\n")},
	}
	return discover.NewScanner(discover.WithFS(fsys))
}

func runDiscoverWith(t *testing.T, opts *DiscoverOptions) string {
	t.Helper()
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())

	if err := runDiscover(cmd, opts, discoverFixture()); err != nil {
		t.Fatalf("runDiscover failed: %v", err)
	}
	return buf.String()
}

func TestRunDiscover_Text(t *testing.T) {
	out := runDiscoverWith(t, &DiscoverOptions{})

	want := []string{
		"Found 3 system log files:",
		" 1. Authentication (readable)",
		"    Path: /var/log/auth.log",
		" 2. System (readable)",
		"    Size: 3.00 MB",
		" 3. Nginx Web Server (readable)",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("Output missing %q:\n%s", w, out)
		}
	}
}

func TestRunDiscover_Filter(t *testing.T) {
	out := runDiscoverWith(t, &DiscoverOptions{Type: "WEB"})
	if !strings.Contains(out, "Found 1 system log files:") || !strings.Contains(out, "nginx/access.log") {
		t.Errorf("Unexpected output:\n%s", out)
	}

	out = runDiscoverWith(t, &DiscoverOptions{Type: "postgres"})
	if out != "No system log files found on this system.\n" {
		t.Errorf("Output = %q", out)
	}
}

func TestRunDiscover_JSON(t *testing.T) {
	out := runDiscoverWith(t, &DiscoverOptions{JSON: true, ReadableOnly: true})

	var logs []discoveredLog
	if err := json.Unmarshal([]byte(out), &logs); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("got %d logs, want 3", len(logs))
	}
	if logs[1].Path != "/var/log/syslog" || logs[1].SizeMB != 3 || !logs[1].Readable {
		t.Errorf("unexpected entry %+v", logs[1])
	}
}
