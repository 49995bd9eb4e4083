// Package output renders activity reports as text, JSON and HTML and
// delivers them to files, writers and the console.
package output

import (
	"time"

	"github.com/eventsieve/eventsieve/pkg/analyzer"
	"github.com/eventsieve/eventsieve/pkg/rules"
)

// Report is the complete analysis output.
type Report struct {
	// Activities in file order.
	Activities []analyzer.Activity `json:"activities"`

	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Metadata provides context about the analysis.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// Total is the number of activities.
	Total int `json:"total"`

	// BySeverity counts activities per severity. Every valid severity is
	// present, with zero counts included.
	BySeverity map[rules.Severity]int `json:"by_severity"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// LogFile is the analyzed log file.
	LogFile string `json:"log_file"`

	// RulesFile is the rule definition file used.
	RulesFile string `json:"rules_file"`

	// GeneratedAt is when the report was built.
	GeneratedAt time.Time `json:"generated_at"`
}

// NewReport creates a Report from analysis results.
func NewReport(activities []analyzer.Activity, meta Metadata) *Report {
	if activities == nil {
		activities = []analyzer.Activity{}
	}
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now()
	}

	counts := make(map[rules.Severity]int, len(rules.Severities))
	for _, s := range rules.Severities {
		counts[s] = 0
	}
	for _, a := range activities {
		counts[a.Severity]++
	}

	return &Report{
		Activities: activities,
		Summary:    Summary{Total: len(activities), BySeverity: counts},
		Metadata:   meta,
	}
}

// HasActivities returns true if anything was found.
func (r *Report) HasActivities() bool {
	return r.Summary.Total > 0
}

// SeverityStat is the count and bar width of one severity.
type SeverityStat struct {
	Severity rules.Severity
	Count    int

	// Percent is relative to the most frequent severity, never below 5.
	Percent float64
}

// MinPercent is the smallest bar width shown for a severity.
const MinPercent = 5.0

// SeverityStats returns one entry per valid severity, lowest first. A
// severity with activities gets max(5, count/maxCount*100); one without
// gets 5.
func SeverityStats(r *Report) []SeverityStat {
	maxCount := 0
	for _, s := range rules.Severities {
		maxCount = max(maxCount, r.Summary.BySeverity[s])
	}

	stats := make([]SeverityStat, 0, len(rules.Severities))
	for _, s := range rules.Severities {
		count := r.Summary.BySeverity[s]
		pct := MinPercent
		if count > 0 {
			pct = max(MinPercent, float64(count)/float64(maxCount)*100)
		}
		stats = append(stats, SeverityStat{Severity: s, Count: count, Percent: pct})
	}
	return stats
}
