// Package tail follows a growing log file by polling and reports matches
// found in newly appended content.
//
// A Tracker owns the read cursor for one file. Each Poll compares the file
// size with the cursor and moves between four states:
//
//	WAITING  the file does not exist (yet); nothing is reported
//	IDLE     no bytes were appended since the last poll
//	READING  bytes [offset, size) are scanned and matched
//	STOPPED  the session ended; the tracker no longer polls
//
// A file that shrinks, or is replaced by a different file at the same
// path, resets the cursor to the start and is rescanned in full.
//
// Line numbers of scanned content are absolute positions in the file. The
// tracker carries the number of lines before the cursor from one poll to
// the next instead of re-reading the file.
//
// A trailing line without a newline is matched as soon as it is read. When
// the writer finishes it, the whole line is matched again under the same
// line number. If the completed text differs, PollResult.New can therefore
// hold a second activity for that line, one from the partial text and one
// from the full line.
//
// A Session drives a Tracker at a fixed interval, hands new activities to
// its handlers, keeps live sinks refreshed and delivers one final full
// analysis when it stops.
package tail

import "errors"

// State is the tracker state after a poll.
type State int

const (
	StateIdle State = iota
	StateWaiting
	StateReading
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaiting:
		return "waiting"
	case StateReading:
		return "reading"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ErrStopped is returned by Poll once the tracker has been stopped.
var ErrStopped = errors.New("tail tracker stopped")
