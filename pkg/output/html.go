package output

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/eventsieve/eventsieve/pkg/analyzer"
	"github.com/eventsieve/eventsieve/pkg/rules"
)

// TimestampLayout is the report timestamp format (dd.mm.yyyy HH:MM:SS).
const TimestampLayout = "02.01.2006 15:04:05"

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(
	template.New("report.html.tmpl").
		Funcs(template.FuncMap{
			"percent": func(v float64) string { return fmt.Sprintf("%.1f", v) },
			"title":   severityTitle,
			"inc":     func(i int) int { return i + 1 },
		}).
		ParseFS(templateFS, "templates/report.html.tmpl"),
)

// htmlData is the template input.
type htmlData struct {
	Timestamp  string
	Total      int
	Activities []analyzer.Activity
	LogFile    string
	RulesFile  string
	Stats      []SeverityStat
}

// HTMLFormatter renders a standalone HTML document.
type HTMLFormatter struct{}

// NewHTMLFormatter creates an HTML formatter.
func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{}
}

// Name returns the format name.
func (f *HTMLFormatter) Name() string {
	return "html"
}

// Format renders the report as HTML.
func (f *HTMLFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	data := htmlData{
		Timestamp:  report.Metadata.GeneratedAt.Format(TimestampLayout),
		Total:      report.Summary.Total,
		Activities: report.Activities,
		LogFile:    report.Metadata.LogFile,
		RulesFile:  report.Metadata.RulesFile,
		Stats:      SeverityStats(report),
	}
	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering HTML report: %w", err)
	}
	return nil
}

func severityTitle(s rules.Severity) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}
