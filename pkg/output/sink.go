package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/eventsieve/eventsieve/pkg/analyzer"
)

// Sink receives finished reports.
type Sink interface {
	Deliver(ctx context.Context, report *Report) error
}

// FileSink writes a formatted report to a file. The file is replaced
// atomically so readers never see a partial report.
type FileSink struct {
	path      string
	formatter Formatter
}

// NewFileSink creates a sink that writes to path using f.
func NewFileSink(path string, f Formatter) *FileSink {
	return &FileSink{path: path, formatter: f}
}

// Path returns the destination file.
func (s *FileSink) Path() string {
	return s.path
}

// Deliver renders the report and replaces the destination file.
func (s *FileSink) Deliver(ctx context.Context, report *Report) error {
	var buf bytes.Buffer
	if err := s.formatter.Format(ctx, report, &buf); err != nil {
		return fmt.Errorf("formatting %s report: %w", s.formatter.Name(), err)
	}

	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("saving report %s: %w", s.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("saving report %s: %w", s.path, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("saving report %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving report %s: %w", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("saving report %s: %w", s.path, err)
	}
	return nil
}

// WriterSink writes a formatted report to an io.Writer.
type WriterSink struct {
	w         io.Writer
	formatter Formatter
}

// NewWriterSink creates a sink that writes to w using f.
func NewWriterSink(w io.Writer, f Formatter) *WriterSink {
	return &WriterSink{w: w, formatter: f}
}

// Deliver renders the report to the writer.
func (s *WriterSink) Deliver(ctx context.Context, report *Report) error {
	return s.formatter.Format(ctx, report, s.w)
}

// ActivitySink turns plain activity lists into reports for a set of
// sinks. It is what a watch session hands its full analyses to.
type ActivitySink struct {
	meta  Metadata
	sinks []Sink
	now   func() time.Time
	after func(Sink)
}

// NewActivitySink builds reports with meta for every delivery. GeneratedAt
// is set at delivery time.
func NewActivitySink(meta Metadata, sinks ...Sink) *ActivitySink {
	return &ActivitySink{meta: meta, sinks: sinks, now: time.Now}
}

// OnDelivered registers a callback run after each successful delivery.
func (s *ActivitySink) OnDelivered(fn func(Sink)) *ActivitySink {
	s.after = fn
	return s
}

// Deliver builds one report and passes it to every sink. All sinks are
// attempted; their errors are joined.
func (s *ActivitySink) Deliver(ctx context.Context, activities []analyzer.Activity) error {
	meta := s.meta
	meta.GeneratedAt = s.now()
	report := NewReport(activities, meta)

	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Deliver(ctx, report); err != nil {
			errs = append(errs, err)
			continue
		}
		if s.after != nil {
			s.after(sink)
		}
	}
	return errors.Join(errs...)
}

// HandleNew delivers a batch of new watch-mode activities as a report of
// its own.
func (s *ActivitySink) HandleNew(ctx context.Context, activities []analyzer.Activity) error {
	return s.Deliver(ctx, activities)
}
