package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventsieve/eventsieve/pkg/analyzer"
	"github.com/eventsieve/eventsieve/pkg/metrics"
	"github.com/eventsieve/eventsieve/pkg/output"
	"github.com/eventsieve/eventsieve/pkg/tail"
)

// stageSink runs before once, then delivers to the wrapped sink.
type stageSink struct {
	before func()
	next   tail.Sink
}

func (s *stageSink) Deliver(ctx context.Context, activities []analyzer.Activity) error {
	if s.before != nil {
		s.before()
		s.before = nil
	}
	return s.next.Deliver(ctx, activities)
}

// watch follows the log file until interrupted, then writes the final
// reports.
func (r *run) watch(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := r.matcher(ctx)
	if err != nil {
		return err
	}

	console := output.NewConsole(r.stdout, r.color)
	interval := r.settings.PollInterval()
	console.Started(r.opts.LogFile, r.settings.RulesFile, interval, m.RuleSet().Len(), len(m.Skipped()))

	observers := tail.Observers{console}
	if r.settings.MetricsAddr != "" {
		srv, mt, err := metrics.Serve(r.settings.MetricsAddr)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		mt.ObserveMatcher(m)
		observers = append(observers, mt)
		console.Info("Metrics available at http://%s/metrics", srv.Addr())
	}

	cfg := tail.Config{
		Interval: interval,
		Handlers: []tail.Handler{console},
		Observer: observers,
		Warn:     r.warn,
	}

	if r.opts.Notify {
		waiter, err := tail.NewNotifyWaiter(r.opts.LogFile, r.warn)
		if err != nil {
			return err
		}
		defer waiter.Close()
		cfg.Waiter = waiter
	}

	meta := r.metadata()
	saved := func(s output.Sink) {
		if fs, ok := s.(*output.FileSink); ok {
			fmt.Fprintf(r.stderr, "Report saved: %s\n", fs.Path())
		}
	}

	var final []output.Sink
	for _, s := range r.fileSinks() {
		final = append(final, s)
	}

	if n := r.notifier(); n != nil {
		// New activities go out as they are found; the final report only
		// when the endpoint's trigger allows it.
		cfg.Handlers = append(cfg.Handlers, output.NewActivitySink(meta, n))
		final = append(final, n)
	}

	if r.opts.HTMLOutput != "" {
		live := output.NewActivitySink(meta, r.htmlSink()).OnDelivered(func(output.Sink) {
			console.Info("HTML report updated.")
		})
		cfg.LiveSinks = append(cfg.LiveSinks, live)
	}

	stopped := false
	markStopped := func() {
		console.Stopped()
		stopped = true
	}
	if len(final) > 0 {
		cfg.FinalSinks = []tail.Sink{&stageSink{
			before: func() {
				markStopped()
				console.Info("Generating final reports...")
			},
			next: output.NewActivitySink(meta, final...).OnDelivered(saved),
		}}
	}

	runErr := tail.NewSession(tail.NewTracker(r.opts.LogFile, m), cfg).Run(ctx)
	if !stopped {
		markStopped()
	}
	if runErr != nil {
		return fmt.Errorf("generating final reports: %w", runErr)
	}
	return nil
}
