package tail

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/eventsieve/eventsieve/pkg/analyzer"
)

// DefaultInterval is the poll interval used when none is configured.
const DefaultInterval = time.Second

// Handler receives the new activities of a poll.
type Handler interface {
	HandleNew(ctx context.Context, activities []analyzer.Activity) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, activities []analyzer.Activity) error

// HandleNew calls f.
func (f HandlerFunc) HandleNew(ctx context.Context, activities []analyzer.Activity) error {
	return f(ctx, activities)
}

// Sink receives a complete analysis of the tracked file.
type Sink interface {
	Deliver(ctx context.Context, activities []analyzer.Activity) error
}

// Observer is notified about every poll. Implementations must not block.
type Observer interface {
	ObservePoll(result *PollResult)
	ObservePollError(err error)
}

// Observers fans poll notifications out to several observers in order.
type Observers []Observer

// ObservePoll notifies every observer.
func (o Observers) ObservePoll(result *PollResult) {
	for _, obs := range o {
		obs.ObservePoll(result)
	}
}

// ObservePollError notifies every observer.
func (o Observers) ObservePollError(err error) {
	for _, obs := range o {
		obs.ObservePollError(err)
	}
}

// Config configures a Session.
type Config struct {
	// Interval between polls. Defaults to DefaultInterval.
	Interval time.Duration

	// Waiter blocks between polls. Defaults to TimerWaiter.
	Waiter Waiter

	// Handlers receive the new activities of each poll, in order.
	Handlers []Handler

	// LiveSinks are refreshed with a full re-analysis of the file whenever
	// a poll finds new activities.
	LiveSinks []Sink

	// FinalSinks receive one full analysis after the session stops.
	FinalSinks []Sink

	// Observer, if set, sees every poll result and poll error.
	Observer Observer

	// Warn receives non-fatal errors. Defaults to analyzer.StderrWarn.
	Warn func(error)
}

// Session drives a Tracker until its context is cancelled.
type Session struct {
	tracker  *Tracker
	analyzer *analyzer.Analyzer
	cfg      Config
}

// NewSession creates a session over tracker. Full analyses use the
// tracker's matcher.
func NewSession(tracker *Tracker, cfg Config) *Session {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Waiter == nil {
		cfg.Waiter = TimerWaiter{}
	}
	if cfg.Warn == nil {
		cfg.Warn = analyzer.StderrWarn
	}
	return &Session{
		tracker:  tracker,
		analyzer: analyzer.New(tracker.matcher),
		cfg:      cfg,
	}
}

// Tracker returns the session's tracker.
func (s *Session) Tracker() *Tracker {
	return s.tracker
}

// Run polls until ctx is cancelled. Poll and delivery errors are passed to
// Warn and never end the loop. Cancellation is observed between polls.
// After stopping, when final sinks are configured, the whole file is
// analyzed once more and delivered to them; the error of that analysis,
// if any, is returned.
func (s *Session) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		s.tick(ctx)
		if err := s.cfg.Waiter.Wait(ctx, s.cfg.Interval); err != nil {
			break
		}
	}

	s.tracker.Stop()
	return s.finish(context.WithoutCancel(ctx))
}

func (s *Session) tick(ctx context.Context) {
	result, err := s.tracker.Poll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.cfg.Warn(fmt.Errorf("error during monitoring: %w", err))
		if s.cfg.Observer != nil {
			s.cfg.Observer.ObservePollError(err)
		}
		return
	}

	if s.cfg.Observer != nil {
		s.cfg.Observer.ObservePoll(result)
	}
	if len(result.New) == 0 {
		return
	}

	for _, h := range s.cfg.Handlers {
		if err := h.HandleNew(ctx, slices.Clone(result.New)); err != nil {
			s.cfg.Warn(fmt.Errorf("reporting new activities: %w", err))
		}
	}

	if len(s.cfg.LiveSinks) > 0 {
		s.refresh(ctx)
	}
}

// refresh re-analyzes the full file for the live sinks.
func (s *Session) refresh(ctx context.Context) {
	activities, err := s.analyzer.Analyze(ctx, s.tracker.Path())
	if err != nil {
		s.cfg.Warn(fmt.Errorf("could not update report: %w", err))
		return
	}
	s.deliver(ctx, s.cfg.LiveSinks, activities)
}

func (s *Session) finish(ctx context.Context) error {
	if len(s.cfg.FinalSinks) == 0 {
		return nil
	}

	activities, err := s.analyzer.Analyze(ctx, s.tracker.Path())
	if err != nil {
		return fmt.Errorf("final analysis: %w", err)
	}
	s.deliver(ctx, s.cfg.FinalSinks, activities)
	return nil
}

func (s *Session) deliver(ctx context.Context, sinks []Sink, activities []analyzer.Activity) {
	for _, sink := range sinks {
		if err := sink.Deliver(ctx, slices.Clone(activities)); err != nil {
			s.cfg.Warn(fmt.Errorf("could not write report: %w", err))
		}
	}
}
