package tail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/eventsieve/eventsieve/pkg/analyzer"
	"github.com/eventsieve/eventsieve/pkg/parser"
)

// PollResult describes one poll tick.
type PollResult struct {
	// State is the tracker state the poll ended in.
	State State

	// Offset is the cursor after the poll.
	Offset int64

	// Size is the file size observed by the poll (0 while waiting).
	Size int64

	// Rotated is set when the cursor was reset because the file shrank or
	// was replaced.
	Rotated bool

	// Matched holds every activity found in the bytes read by this poll.
	Matched []analyzer.Activity

	// New holds the Matched activities that were not in the recently-seen
	// window. They have been added to the window.
	New []analyzer.Activity
}

// cursor is the position of the tracker within the file. It is copied
// while a poll reads and committed only when the read succeeds.
type cursor struct {
	// offset is the next byte to read.
	offset int64

	// lines is the number of lines that start before offset.
	lines int

	// partial holds the unterminated last line when midLine is set.
	partial string
	midLine bool
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithClock overrides the time source used for ObservedAt.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithWindowSize overrides the duplicate-suppression window capacity.
func WithWindowSize(n int) TrackerOption {
	return func(t *Tracker) {
		t.seen = NewWindow(n)
	}
}

// Tracker keeps the incremental read cursor for one log file.
// It is not safe for concurrent use.
type Tracker struct {
	path    string
	matcher *analyzer.Matcher
	now     func() time.Time

	state State
	pos   cursor
	ident os.FileInfo
	seen  *Window
}

// NewTracker creates a tracker for path starting at byte 0.
func NewTracker(path string, m *analyzer.Matcher, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		path:    path,
		matcher: m,
		now:     time.Now,
		state:   StateIdle,
		seen:    NewWindow(DefaultWindowSize),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Path returns the tracked file path.
func (t *Tracker) Path() string { return t.path }

// State returns the state reached by the last poll.
func (t *Tracker) State() State { return t.state }

// Offset returns the byte offset of the read cursor.
func (t *Tracker) Offset() int64 { return t.pos.offset }

// Lines returns the number of lines read so far, counting an
// unterminated last line.
func (t *Tracker) Lines() int { return t.pos.lines }

// Recent returns the recently reported activities, oldest first.
func (t *Tracker) Recent() []analyzer.Activity { return t.seen.Items() }

// Stop moves the tracker to STOPPED. Later polls return ErrStopped.
func (t *Tracker) Stop() {
	t.state = StateStopped
}

// Poll runs one tick of the state machine. A missing file is not an error.
// Errors leave the cursor untouched so the next poll retries the same range.
func (t *Tracker) Poll(ctx context.Context) (*PollResult, error) {
	if t.state == StateStopped {
		return nil, ErrStopped
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			t.state = StateWaiting
			return &PollResult{State: StateWaiting, Offset: t.pos.offset}, nil
		}
		return nil, fmt.Errorf("stat %s: %w", t.path, err)
	}

	size := info.Size()
	result := &PollResult{Size: size}

	if size < t.pos.offset || (t.ident != nil && !os.SameFile(t.ident, info)) {
		t.pos = cursor{}
		result.Rotated = true
	}
	t.ident = info

	if size == t.pos.offset {
		t.state = StateIdle
		result.State = StateIdle
		result.Offset = t.pos.offset
		return result, nil
	}

	t.state = StateReading
	next, matched, err := t.read(ctx, size)
	if err != nil {
		return nil, err
	}
	t.pos = next

	observed := t.now()
	for i := range matched {
		matched[i].ObservedAt = observed
	}

	var fresh []analyzer.Activity
	for _, a := range matched {
		if !t.seen.Contains(a) {
			fresh = append(fresh, a)
		}
	}
	t.seen.Add(fresh...)

	result.State = StateReading
	result.Offset = t.pos.offset
	result.Matched = matched
	result.New = fresh
	return result, nil
}

// read scans bytes [offset, size) and returns the advanced cursor with the
// activities found. The file is opened and closed within the call.
func (t *Tracker) read(ctx context.Context, size int64) (cursor, []analyzer.Activity, error) {
	pos := t.pos

	f, err := os.Open(t.path) // #nosec G304 -- user-provided log path is expected
	if err != nil {
		return pos, nil, fmt.Errorf("opening %s: %w", t.path, err)
	}
	defer f.Close()

	reader := bufio.NewReaderSize(io.NewSectionReader(f, pos.offset, size-pos.offset), 64*1024)

	var matched []analyzer.Activity
	for {
		if err := ctx.Err(); err != nil {
			return t.pos, nil, err
		}

		segment, err := reader.ReadString('\n')
		if len(segment) > 0 {
			pos.offset += int64(len(segment))
			matched = append(matched, pos.consume(segment, t.matcher)...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return t.pos, nil, fmt.Errorf("reading %s: %w", t.path, err)
		}
	}

	if pos.offset != size {
		return t.pos, nil, fmt.Errorf("reading %s: file changed during read", t.path)
	}
	return pos, matched, nil
}

// consume advances the cursor over one segment (a line, or the tail of a
// line that is still being written) and matches it under its absolute
// line number. A segment continuing an unterminated line keeps that line's
// number and is matched together with the text read before.
func (c *cursor) consume(segment string, m *analyzer.Matcher) []analyzer.Activity {
	text, terminated := strings.CutSuffix(segment, "\n")

	lineNum := c.lines + 1
	if c.midLine {
		lineNum = c.lines
		text = c.partial + text
	}
	c.lines = lineNum

	if terminated {
		c.midLine = false
		c.partial = ""
	} else {
		c.midLine = true
		c.partial = text
	}

	content := strings.TrimSpace(parser.Clean(text))
	if content == "" {
		return nil
	}
	return m.Match(content, lineNum)
}
