package output

import (
	"context"
	"io"
)

// Formatter renders a report in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json, html).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose adds the source files and generation time to text output.
	Verbose bool

	// Quiet limits output to the summary.
	Quiet bool

	// Color styles text output by severity. Styles are only emitted when
	// the destination writer is a terminal.
	Color bool
}

// ForName returns the formatter registered under name.
func ForName(name string, opts FormatOptions) (Formatter, bool) {
	switch name {
	case "text":
		return NewTextFormatter(opts), true
	case "json":
		return NewJSONFormatter(opts), true
	case "html":
		return NewHTMLFormatter(), true
	default:
		return nil, false
	}
}
