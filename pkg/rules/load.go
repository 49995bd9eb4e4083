package rules

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the syntax of a rule definition.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the definition format from a file extension.
// Unknown extensions are read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Open loads a rules file and validates it. It is the entry point for
// callers that go on to match lines.
func Open(ctx context.Context, path string) (*RuleSet, error) {
	rs, err := Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := Validate(rs); err != nil {
		return nil, fmt.Errorf("validating rules file: %w", err)
	}
	return rs, nil
}

// Load reads a rule definition without validating individual rules.
// It fails on unreadable input, malformed syntax, or a top-level value that
// is not a list; it never returns a partially loaded set.
func Load(_ context.Context, path string) (*RuleSet, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided rules path is expected
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	rs, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	rs.source = path
	return rs, nil
}

// Parse decodes a rule definition from memory.
func Parse(data []byte, format Format) (*RuleSet, error) {
	entries, err := decodeEntries(data, format)
	if err != nil {
		return nil, err
	}

	rs := &RuleSet{rules: make([]Rule, 0, len(entries))}
	for _, entry := range entries {
		rs.rules = append(rs.rules, ruleFromEntry(entry))
	}
	return rs, nil
}

func decodeEntries(data []byte, format Format) ([]any, error) {
	var doc any

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
	case FormatTOML:
		var table map[string]any
		if err := toml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		list, ok := table["rules"]
		if !ok {
			return nil, fmt.Errorf("%w (expected [[rules]] tables)", ErrMalformedDefinition)
		}
		doc = list
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
	}

	entries, ok := doc.([]any)
	if !ok {
		return nil, ErrMalformedDefinition
	}
	return entries, nil
}

func ruleFromEntry(entry any) Rule {
	r := Rule{raw: entry}
	fields, ok := entry.(map[string]any)
	if !ok {
		return r
	}
	if s, ok := fields[FieldPattern].(string); ok {
		r.Pattern = s
	}
	if s, ok := fields[FieldDescription].(string); ok {
		r.Description = s
	}
	if s, ok := fields[FieldSeverity].(string); ok {
		r.Severity = Severity(s)
	}
	return r
}
