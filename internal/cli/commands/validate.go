package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eventsieve/eventsieve/pkg/analyzer"
	"github.com/eventsieve/eventsieve/pkg/rules"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <rules-file>",
		Short: "Validate a rules file",
		Long: `Validate an EventSieve rules file without analyzing any log.

Checks:
  - JSON, YAML or TOML syntax (chosen by file extension)
  - Required fields (pattern, description, severity)
  - Severity values (low, medium, high, critical)
  - Regex pattern validity`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	rulesPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", rulesPath)

	rs, err := rules.Open(ctx, rulesPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	m := analyzer.NewMatcher(rs, analyzer.WithWarnFunc(func(error) {}))
	skipped := make(map[int]*analyzer.PatternError, len(m.Skipped()))
	for _, pe := range m.Skipped() {
		skipped[pe.Index] = pe
	}

	fmt.Fprintf(out, "\nRules (%d, format %s):\n", rs.Len(), rules.FormatFor(rulesPath))
	for i, rule := range rs.All() {
		fmt.Fprintf(out, "  %d. [%s] %s\n", i+1, rule.Severity, rule.Description)
		fmt.Fprintf(out, "     %s\n", rule.Pattern)
		if pe, ok := skipped[i+1]; ok {
			fmt.Fprintf(out, "     invalid pattern: %v\n", pe.Err)
		}
	}

	if len(skipped) > 0 {
		return fmt.Errorf("validation failed: %d rule(s) have invalid patterns", len(skipped))
	}

	fmt.Fprintf(out, "\nRules file valid!\n")
	return nil
}
