package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// cursor is an open file being read line by line.
type cursor struct {
	path string
	f    *os.File
	r    *bufio.Reader
	line int
	done bool
}

func openCursor(path string) (*cursor, error) {
	f, err := os.Open(path) // #nosec G304 -- reading operator-named log files
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return &cursor{path: path, f: f, r: bufio.NewReaderSize(f, 64*1024)}, nil
}

// readLine returns the next line without its terminator. Lines have no
// length limit. ok is false once the file is exhausted.
func (c *cursor) readLine() (line string, ok bool, err error) {
	if c.done {
		return "", false, nil
	}
	line, err = c.r.ReadString('\n')
	if err == io.EOF {
		c.done = true
		if line == "" {
			return "", false, nil
		}
	} else if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", c.path, err)
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), true, nil
}

// FileSource reads one or more files in order. Line numbers restart at 1
// for each file.
type FileSource struct {
	pending []string
	cur     *cursor
}

func NewFileSource(files ...string) *FileSource {
	return &FileSource{pending: files}
}

// Next returns the next line of the current file, blank lines included.
// It moves on to the next file at end of input and returns io.EOF after
// the last one.
func (s *FileSource) Next(ctx context.Context) (*LogLine, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if s.cur == nil {
			if len(s.pending) == 0 {
				return nil, io.EOF
			}
			c, err := openCursor(s.pending[0])
			if err != nil {
				return nil, err
			}
			s.pending = s.pending[1:]
			s.cur = c
		}

		c := s.cur
		text, ok, err := c.readLine()
		if err != nil {
			return nil, err
		}
		if ok {
			c.line++
			return &LogLine{Content: Clean(text), Source: c.path, LineNum: c.line}, nil
		}
		if err := s.Close(); err != nil {
			return nil, err
		}
	}
}

// Close closes the file currently being read, if any.
func (s *FileSource) Close() error {
	if s.cur == nil {
		return nil
	}
	err := s.cur.f.Close()
	s.cur = nil
	return err
}
