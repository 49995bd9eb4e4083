// Package parser provides line-oriented log file reading.
//
// Lines are treated as opaque text; no log format is assumed.
package parser

import "strings"

// LogLine is a single raw log line.
type LogLine struct {
	// Content is the line text without its line terminator.
	Content string

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int
}

// Trimmed returns the content without surrounding whitespace.
func (l *LogLine) Trimmed() string {
	return strings.TrimSpace(l.Content)
}

// Blank reports whether the line holds only whitespace.
func (l *LogLine) Blank() bool {
	return l.Trimmed() == ""
}

// Clean replaces invalid UTF-8 sequences with U+FFFD so that undecodable
// bytes never abort a scan.
func Clean(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}
