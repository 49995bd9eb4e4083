package output

import (
	"context"
	"fmt"
	"io"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	p := newPalette(w, f.opts.Color)

	if !report.HasActivities() {
		_, err := fmt.Fprintln(w, p.render(p.ok, "No suspicious activities found."))
		return err
	}

	if _, err := fmt.Fprintln(w, p.render(p.header,
		fmt.Sprintf("Total %d suspicious activities found:", report.Summary.Total))); err != nil {
		return err
	}

	if f.opts.Quiet {
		return nil
	}

	fmt.Fprintln(w)
	for i, a := range report.Activities {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s\n",
			p.render(p.entry, fmt.Sprintf("%d. Line %d: %s", i+1, a.LineNumber, a.RuleDescription)),
			p.sev(a.Severity, fmt.Sprintf("(Severity: %s)", a.Severity)))
		fmt.Fprintln(w, p.render(p.body, "   Content: "+a.LineContent))
		fmt.Fprintln(w, p.render(p.body, "   Pattern: "+a.MatchedPattern))
		fmt.Fprintln(w)
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "Log file: %s\n", report.Metadata.LogFile)
		fmt.Fprintf(w, "Rules file: %s\n", report.Metadata.RulesFile)
		fmt.Fprintf(w, "Generated: %s\n", report.Metadata.GeneratedAt.Format(TimestampLayout))
	}

	return nil
}
