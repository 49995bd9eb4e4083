package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/eventsieve/eventsieve/pkg/parser"
)

// Analyzer runs a Matcher over complete log files.
type Analyzer struct {
	matcher *Matcher
}

// New creates an Analyzer backed by m.
func New(m *Matcher) *Analyzer {
	return &Analyzer{matcher: m}
}

// Matcher returns the matcher used for each line.
func (a *Analyzer) Matcher() *Matcher {
	return a.matcher
}

// Analyze reads the file at path from start to end and returns every
// activity in file order. Blank lines are skipped but still counted for
// line numbering. A missing file yields ErrNotFound and any other read
// failure ErrIO; no partial results are returned.
func (a *Analyzer) Analyze(ctx context.Context, path string) ([]Activity, error) {
	source := parser.NewFileSource(path)
	defer source.Close()

	activities, err := a.AnalyzeSource(ctx, source)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return activities, nil
}

// AnalyzeSource matches every non-blank line of source.
func (a *Analyzer) AnalyzeSource(ctx context.Context, source parser.LineSource) ([]Activity, error) {
	activities := []Activity{}
	for {
		line, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if line.Blank() {
			continue
		}
		activities = append(activities, a.matcher.Match(line.Content, line.LineNum)...)
	}
	return activities, nil
}

// Analyze is a convenience wrapper around New(m).Analyze.
func Analyze(ctx context.Context, path string, m *Matcher) ([]Activity, error) {
	return New(m).Analyze(ctx, path)
}
