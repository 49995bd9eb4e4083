package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "eventsieve" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	for _, name := range []string{"validate", "discover", "version"} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("Missing subcommand: %s", name)
		}
	}

	if cmd.Flags().Lookup("log-file") == nil {
		t.Error("Missing flag: log-file")
	}
}

func TestRootCommand_NoArgsPrintsHelp(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{})

	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Usage:") || !strings.Contains(buf.String(), "--log-file") {
		t.Errorf("Expected help output, got:\n%s", buf.String())
	}
}

func TestRootCommand_MissingLogFile(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"-l", "/nonexistent/app.log", "-r", "/nonexistent/rules.json"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "log file not found") {
		t.Errorf("error = %v, want log file not found", err)
	}
}
