package rules

// Validate checks every rule in order and returns a *ValidationError for the
// first one that is not an object, lacks a required field, carries a
// non-string field, or has a severity outside the valid set.
// An empty RuleSet is valid.
func Validate(rs *RuleSet) error {
	for i, rule := range rs.All() {
		if err := validateRule(i+1, rule); err != nil {
			return err
		}
	}
	return nil
}

func validateRule(index int, rule Rule) error {
	if rule.raw != nil {
		fields, ok := rule.raw.(map[string]any)
		if !ok {
			return &ValidationError{Index: index, Reason: "must be an object"}
		}

		for _, name := range requiredFields {
			value, present := fields[name]
			if !present {
				return &ValidationError{Index: index, Field: name, Reason: "missing required field"}
			}
			if _, ok := value.(string); !ok {
				return &ValidationError{Index: index, Field: name, Value: value, Reason: "has non-string"}
			}
		}
	}

	if !rule.Severity.Valid() {
		return &ValidationError{
			Index:  index,
			Field:  FieldSeverity,
			Value:  string(rule.Severity),
			Reason: "has invalid",
		}
	}

	return nil
}
