// Package rules loads and validates the ordered rule definitions that
// EventSieve matches log lines against.
package rules

import (
	"iter"
	"slices"
)

// Severity is the risk level attached to a rule.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists the valid severities from lowest to highest.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// Rank orders severities from 1 (low) to 4 (critical). Unknown values rank 0.
func (s Severity) Rank() int {
	return slices.Index(Severities, s) + 1
}

func (s Severity) String() string {
	return string(s)
}

// Required field names of a rule definition.
const (
	FieldPattern     = "pattern"
	FieldDescription = "description"
	FieldSeverity    = "severity"
)

var requiredFields = []string{FieldPattern, FieldDescription, FieldSeverity}

// Rule is a single matching rule.
type Rule struct {
	// Pattern is a regular expression, matched case-insensitively.
	Pattern string

	// Description names the rule in reports.
	Description string

	// Severity is propagated to every activity the rule produces.
	Severity Severity

	// raw holds the decoded definition entry; Validate inspects it for
	// missing fields and wrong types.
	raw any
}

// RuleSet is an immutable, ordered collection of rules.
type RuleSet struct {
	rules  []Rule
	source string
}

// NewRuleSet builds a RuleSet from already-typed rules. Rules built this way
// have no raw definition, so Validate only checks their severities.
func NewRuleSet(rules ...Rule) *RuleSet {
	return &RuleSet{rules: slices.Clone(rules)}
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}

// At returns the i-th rule (0-based).
func (rs *RuleSet) At(i int) Rule {
	return rs.rules[i]
}

// Rules returns a copy of the rules in definition order.
func (rs *RuleSet) Rules() []Rule {
	if rs == nil {
		return nil
	}
	return slices.Clone(rs.rules)
}

// All iterates the rules in definition order.
func (rs *RuleSet) All() iter.Seq2[int, Rule] {
	return func(yield func(int, Rule) bool) {
		if rs == nil {
			return
		}
		for i, r := range rs.rules {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Source returns the path the set was loaded from, if any.
func (rs *RuleSet) Source() string {
	if rs == nil {
		return ""
	}
	return rs.source
}
