package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// summaryDocument is what quiet JSON output contains.
type summaryDocument struct {
	Summary  Summary  `json:"summary"`
	Metadata Metadata `json:"metadata"`
}

// JSONFormatter writes a report as one indented JSON document.
type JSONFormatter struct {
	quiet bool
}

func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{quiet: opts.Quiet}
}

func (f *JSONFormatter) Name() string { return "json" }

// Format writes the full report, or only its summary and metadata when quiet.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var doc any = report
	if f.quiet {
		doc = summaryDocument{Summary: report.Summary, Metadata: report.Metadata}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding json report: %w", err)
	}
	return nil
}
