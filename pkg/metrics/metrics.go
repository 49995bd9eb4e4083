// Package metrics exposes watch-mode activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eventsieve/eventsieve/pkg/analyzer"
	"github.com/eventsieve/eventsieve/pkg/rules"
	"github.com/eventsieve/eventsieve/pkg/tail"
)

// Metrics records tracker polls. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	pollsTotal      *prometheus.CounterVec
	activitiesTotal *prometheus.CounterVec
	pollErrorsTotal prometheus.Counter
	rotationsTotal  prometheus.Counter
	offsetBytes     prometheus.Gauge
	skippedPatterns prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg, or with
// the default registerer when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pollsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "eventsieve_polls_total", Help: "Total tracker polls by resulting state"},
			[]string{"state"},
		),
		activitiesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "eventsieve_new_activities_total", Help: "Total new suspicious activities reported"},
			[]string{"severity"},
		),
		pollErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "eventsieve_poll_errors_total", Help: "Total polls that failed"},
		),
		rotationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "eventsieve_rotations_total", Help: "Total times the log file was truncated or replaced"},
		),
		offsetBytes: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "eventsieve_offset_bytes", Help: "Current read offset in the log file"},
		),
		skippedPatterns: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "eventsieve_skipped_patterns", Help: "Rules skipped because their pattern did not compile"},
		),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.pollsTotal,
		m.activitiesTotal,
		m.pollErrorsTotal,
		m.rotationsTotal,
		m.offsetBytes,
		m.skippedPatterns,
	)

	// Known label values start at zero so they show up before the first hit.
	for _, s := range []tail.State{tail.StateIdle, tail.StateWaiting, tail.StateReading} {
		m.pollsTotal.WithLabelValues(s.String())
	}
	for _, s := range rules.Severities {
		m.activitiesTotal.WithLabelValues(s.String())
	}

	return m
}

// Handler serves the metrics gathered by reg.
func (m *Metrics) Handler(reg *prometheus.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ObservePoll records one successful poll.
func (m *Metrics) ObservePoll(result *tail.PollResult) {
	if m == nil || result == nil {
		return
	}

	m.pollsTotal.WithLabelValues(result.State.String()).Inc()
	m.offsetBytes.Set(float64(result.Offset))
	if result.Rotated {
		m.rotationsTotal.Inc()
	}
	m.ObserveActivities(result.New)
}

// ObservePollError records a failed poll.
func (m *Metrics) ObservePollError(error) {
	if m == nil {
		return
	}
	m.pollErrorsTotal.Inc()
}

// ObserveActivities counts reported activities by severity.
func (m *Metrics) ObserveActivities(activities []analyzer.Activity) {
	if m == nil {
		return
	}
	for _, a := range activities {
		m.activitiesTotal.WithLabelValues(a.Severity.String()).Inc()
	}
}

// ObserveMatcher records how many rules were unusable.
func (m *Metrics) ObserveMatcher(matcher *analyzer.Matcher) {
	if m == nil || matcher == nil {
		return
	}
	m.skippedPatterns.Set(float64(len(matcher.Skipped())))
}
