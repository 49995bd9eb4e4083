// Package analyzer matches log lines against a RuleSet and turns the hits
// into Activity records.
package analyzer

import (
	"errors"
	"fmt"
	"time"

	"github.com/eventsieve/eventsieve/pkg/rules"
)

var (
	// ErrNotFound is returned when the log file does not exist.
	ErrNotFound = errors.New("log file not found")

	// ErrIO is returned for any other failure while reading a log file.
	ErrIO = errors.New("error reading log file")
)

// Activity is one recorded match of a rule against a line.
type Activity struct {
	// LineNumber is the 1-based position of the line in the full file.
	LineNumber int `json:"line_number"`

	// LineContent is the matched line without surrounding whitespace.
	LineContent string `json:"line"`

	// RuleDescription is the description of the rule that matched.
	RuleDescription string `json:"rule"`

	// Severity is copied from the rule.
	Severity rules.Severity `json:"severity"`

	// MatchedPattern is the rule's pattern as written in the definition.
	MatchedPattern string `json:"pattern"`

	// ObservedAt is set in watch mode only. It is display-only and ignored
	// by Equal.
	ObservedAt time.Time `json:"observed_at,omitzero"`
}

// Equal reports whether two activities describe the same match.
// ObservedAt is not compared.
func (a Activity) Equal(b Activity) bool {
	return a.LineNumber == b.LineNumber &&
		a.LineContent == b.LineContent &&
		a.RuleDescription == b.RuleDescription &&
		a.Severity == b.Severity &&
		a.MatchedPattern == b.MatchedPattern
}

// PatternError reports a rule whose pattern cannot be compiled. The rule is
// skipped; analysis continues with the remaining rules.
type PatternError struct {
	// Index is the 1-based position of the rule.
	Index int

	// Pattern is the offending expression.
	Pattern string

	Err error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid regex pattern '%s' (rule %d): %v", e.Pattern, e.Index, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
