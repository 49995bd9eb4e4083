package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the rules file does not exist.
	ErrNotFound = errors.New("rules file not found")

	// ErrIO is returned when the rules file exists but cannot be read.
	ErrIO = errors.New("cannot read rules file")

	// ErrParse is returned when the rules file is not well-formed JSON, YAML or TOML.
	ErrParse = errors.New("invalid rules syntax")

	// ErrMalformedDefinition is returned when the document is well-formed
	// but is not a list of rules.
	ErrMalformedDefinition = errors.New("rules file must contain a list of rules")

	// ErrValidation is wrapped by every ValidationError.
	ErrValidation = errors.New("invalid rule")
)

// ValidationError identifies the first offending rule of a RuleSet.
type ValidationError struct {
	// Index is the 1-based position of the rule in the definition.
	Index int

	// Field is the offending field, empty when the entry itself is wrong.
	Field string

	// Value is the rejected value, if any.
	Value any

	// Reason is a short human-readable explanation.
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Field == "":
		return fmt.Sprintf("rule %d %s", e.Index, e.Reason)
	case e.Value != nil:
		return fmt.Sprintf("rule %d %s %s: %v", e.Index, e.Reason, e.Field, e.Value)
	default:
		return fmt.Sprintf("rule %d %s: %s", e.Index, e.Reason, e.Field)
	}
}

// Unwrap lets callers match any validation failure with errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
