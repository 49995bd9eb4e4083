package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/eventsieve/eventsieve/pkg/analyzer"
	"github.com/eventsieve/eventsieve/pkg/tail"
)

// Console prints watch-mode status and notifications.
type Console struct {
	w       io.Writer
	p       palette
	now     func() time.Time
	waiting bool
}

// NewConsole creates a console writing to w.
func NewConsole(w io.Writer, color bool) *Console {
	return &Console{w: w, p: newPalette(w, color), now: time.Now}
}

// Started prints the watch banner.
// skipped counts rules whose pattern did not compile; they are part of
// loaded but never match.
func (c *Console) Started(logFile, rulesFile string, interval time.Duration, loaded, skipped int) {
	fmt.Fprintln(c.w, c.p.render(c.p.ok, "EventSieve - Real-time Log Monitoring Started"))
	fmt.Fprintf(c.w, "Log file: %s\n", logFile)
	fmt.Fprintf(c.w, "Rules file: %s\n", rulesFile)
	fmt.Fprintf(c.w, "Check interval: %s\n", interval)
	fmt.Fprintln(c.w, c.p.render(c.p.ok, strings.Repeat("-", 60)))
	fmt.Fprintf(c.w, "%d rules loaded.\n", loaded)
	if skipped > 0 {
		fmt.Fprintln(c.w, c.p.render(c.p.header, fmt.Sprintf("%d rule(s) skipped: pattern does not compile.", skipped)))
	}
	fmt.Fprintln(c.w, c.p.render(c.p.entry, "Monitoring for new log entries... (Press Ctrl+C to stop)"))
}

// Stopped prints the shutdown notice.
func (c *Console) Stopped() {
	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, c.p.render(c.p.header, "Monitoring stopped."))
}

// Info prints a status line.
func (c *Console) Info(format string, args ...any) {
	fmt.Fprintln(c.w, c.p.render(c.p.ok, fmt.Sprintf(format, args...)))
}

// HandleNew prints a batch of new activities.
func (c *Console) HandleNew(ctx context.Context, activities []analyzer.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	at := activities[0].ObservedAt
	if at.IsZero() {
		at = c.now()
	}

	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, c.p.render(c.p.header,
		fmt.Sprintf("[%s] New suspicious activities detected:", at.Format(time.TimeOnly))))
	for _, a := range activities {
		fmt.Fprintf(c.w, "%s %s\n",
			c.p.render(c.p.entry, fmt.Sprintf("Line %d: %s", a.LineNumber, a.RuleDescription)),
			c.p.sev(a.Severity, fmt.Sprintf("(Severity: %s)", a.Severity)))
		fmt.Fprintln(c.w, c.p.render(c.p.body, "   Content: "+a.LineContent))
	}
	return nil
}

// ObservePoll reports when the log file goes missing and when it
// reappears.
func (c *Console) ObservePoll(result *tail.PollResult) {
	switch {
	case result.State == tail.StateWaiting && !c.waiting:
		c.waiting = true
		fmt.Fprintln(c.w, c.p.render(c.p.header, "Warning: Log file not found, waiting..."))
	case result.State != tail.StateWaiting && c.waiting:
		c.waiting = false
		fmt.Fprintln(c.w, c.p.render(c.p.ok, "Log file found, resuming."))
	}
	if result.Rotated {
		fmt.Fprintln(c.w, c.p.render(c.p.header, "Log file was truncated or replaced, rescanning from the start."))
	}
}

// ObservePollError is a no-op; poll errors reach the session's warn hook.
func (c *Console) ObservePollError(error) {}
