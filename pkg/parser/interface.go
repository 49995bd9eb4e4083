package parser

import "context"

// LineSource yields log lines one at a time. It is not safe for
// concurrent use.
type LineSource interface {
	// Next returns io.EOF once the source is drained.
	Next(ctx context.Context) (*LogLine, error)
	Close() error
}
