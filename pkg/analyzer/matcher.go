package analyzer

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/eventsieve/eventsieve/pkg/rules"
)

// WarnFunc receives non-fatal problems such as unusable patterns.
type WarnFunc func(err error)

// StderrWarn writes warnings to standard error.
func StderrWarn(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithWarnFunc sets where pattern warnings go. Defaults to StderrWarn.
func WithWarnFunc(fn WarnFunc) MatcherOption {
	return func(m *Matcher) {
		if fn != nil {
			m.warn = fn
		}
	}
}

// Matcher applies a RuleSet to single lines. Patterns are compiled once;
// a pattern that does not compile is reported a single time and never
// produces activities.
type Matcher struct {
	rs      *rules.RuleSet
	rules   []compiledRule
	skipped []*PatternError
	warn    WarnFunc
}

type compiledRule struct {
	rule rules.Rule
	re   *regexp.Regexp
}

// NewMatcher compiles the rules of rs for case-insensitive matching.
func NewMatcher(rs *rules.RuleSet, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		rs:    rs,
		rules: make([]compiledRule, 0, rs.Len()),
		warn:  StderrWarn,
	}
	for _, opt := range opts {
		opt(m)
	}

	for i, rule := range rs.All() {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			perr := &PatternError{Index: i + 1, Pattern: rule.Pattern, Err: err}
			m.skipped = append(m.skipped, perr)
			m.warn(perr)
			continue
		}
		m.rules = append(m.rules, compiledRule{rule: rule, re: re})
	}

	return m
}

// Match evaluates every usable rule against line, in rule order, and
// returns one Activity per matching rule. The line is trimmed first.
func (m *Matcher) Match(line string, lineNumber int) []Activity {
	line = strings.TrimSpace(line)

	var activities []Activity
	for _, cr := range m.rules {
		if !cr.re.MatchString(line) {
			continue
		}
		activities = append(activities, Activity{
			LineNumber:      lineNumber,
			LineContent:     line,
			RuleDescription: cr.rule.Description,
			Severity:        cr.rule.Severity,
			MatchedPattern:  cr.rule.Pattern,
		})
	}
	return activities
}

// RuleSet returns the rules the matcher was built from.
func (m *Matcher) RuleSet() *rules.RuleSet {
	return m.rs
}

// Usable returns the number of rules whose patterns compiled.
func (m *Matcher) Usable() int {
	return len(m.rules)
}

// Skipped returns the rules that were dropped because their pattern did
// not compile.
func (m *Matcher) Skipped() []*PatternError {
	return m.skipped
}
