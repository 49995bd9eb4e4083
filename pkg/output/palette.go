package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/eventsieve/eventsieve/pkg/rules"
)

// palette holds the console styles. A plain palette renders text
// unchanged.
type palette struct {
	plain    bool
	header   lipgloss.Style
	ok       lipgloss.Style
	entry    lipgloss.Style
	body     lipgloss.Style
	severity map[rules.Severity]lipgloss.Style
}

// newPalette builds styles for w. The renderer inspects w, so colour is
// dropped automatically for files and pipes.
func newPalette(w io.Writer, color bool) palette {
	if !color {
		return palette{plain: true}
	}

	r := lipgloss.NewRenderer(w)
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	fg := func(c string) lipgloss.Style {
		return base.Foreground(lipgloss.Color(c))
	}

	return palette{
		header: fg("3"),
		ok:     fg("2"),
		entry:  fg("6"),
		body:   fg("7"),
		severity: map[rules.Severity]lipgloss.Style{
			rules.SeverityLow:      fg("2"),
			rules.SeverityMedium:   fg("3"),
			rules.SeverityHigh:     fg("1"),
			rules.SeverityCritical: fg("1").Background(lipgloss.Color("7")).Bold(true),
		},
	}
}

func (p palette) render(s lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return s.Render(text)
}

func (p palette) sev(s rules.Severity, text string) string {
	if p.plain {
		return text
	}
	style, ok := p.severity[s]
	if !ok {
		style = p.body
	}
	return style.Render(text)
}
