package tail

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Waiter blocks between polls. Wait returns nil when the next poll is due
// and the context error once ctx is done.
type Waiter interface {
	Wait(ctx context.Context, d time.Duration) error
}

// TimerWaiter waits for the full interval.
type TimerWaiter struct{}

// Wait sleeps for d or until ctx is done.
func (TimerWaiter) Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NotifyWaiter waits for the interval but returns early when the
// filesystem reports a change to the tracked file. The parent directory is
// watched so that creation and rotation are seen too.
type NotifyWaiter struct {
	fsw    *fsnotify.Watcher
	target string
	warn   func(error)
}

// NewNotifyWaiter watches the directory containing path.
func NewNotifyWaiter(path string, warn func(error)) (*NotifyWaiter, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	if warn == nil {
		warn = func(error) {}
	}
	return &NotifyWaiter{fsw: fsw, target: abs, warn: warn}, nil
}

// Wait returns after d, on a relevant event for the tracked file, or when
// ctx is done.
func (w *NotifyWaiter) Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return TimerWaiter{}.Wait(ctx, d)
			}
			if w.relevant(ev) {
				return nil
			}
		case err, ok := <-w.fsw.Errors:
			if ok {
				w.warn(fmt.Errorf("file watcher: %w", err))
			}
		}
	}
}

func (w *NotifyWaiter) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.target {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

// Close stops watching.
func (w *NotifyWaiter) Close() error {
	return w.fsw.Close()
}
