package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/eventsieve/eventsieve/pkg/output"
)

// Trigger determines when a webhook fires.
type Trigger string

const (
	// TriggerOnIssues fires only when activities were found (default).
	TriggerOnIssues Trigger = "on_issues"
	// TriggerAlways fires for every report.
	TriggerAlways Trigger = "always"
	// TriggerNever disables the webhook.
	TriggerNever Trigger = "never"
)

// Valid reports whether t is a known trigger. The empty trigger is valid
// and means TriggerOnIssues.
func (t Trigger) Valid() bool {
	switch t {
	case "", TriggerOnIssues, TriggerAlways, TriggerNever:
		return true
	}
	return false
}

// ShouldFire decides whether a webhook with trigger t fires for a report.
func (t Trigger) ShouldFire(hasActivities bool) bool {
	switch t {
	case TriggerAlways:
		return true
	case TriggerNever:
		return false
	default:
		return hasActivities
	}
}

// Endpoint is one configured webhook target.
type Endpoint struct {
	Name    string
	URL     string
	Token   string
	Trigger Trigger
	Timeout time.Duration
}

// Label returns the name used in status messages.
func (e Endpoint) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.URL
}

// Notifier sends reports to a set of endpoints. It satisfies output.Sink.
type Notifier struct {
	client    *Client
	endpoints []Endpoint
	log       io.Writer
}

// NewNotifier creates a notifier. Successful deliveries are logged to log.
func NewNotifier(client *Client, endpoints []Endpoint, log io.Writer) *Notifier {
	if client == nil {
		client = NewClient()
	}
	if log == nil {
		log = io.Discard
	}
	return &Notifier{client: client, endpoints: endpoints, log: log}
}

// Len returns the number of endpoints.
func (n *Notifier) Len() int {
	return len(n.endpoints)
}

// Deliver sends report to every endpoint whose trigger fires. All endpoints
// are attempted; failures are joined into the returned error.
func (n *Notifier) Deliver(ctx context.Context, report *output.Report) error {
	var errs []error
	for _, ep := range n.endpoints {
		if !ep.Trigger.ShouldFire(report.HasActivities()) {
			continue
		}

		res := n.client.Post(ctx, ep, report)
		if !res.OK() {
			errs = append(errs, fmt.Errorf("webhook %s: %w", ep.Label(), res.Err))
			continue
		}
		fmt.Fprintf(n.log, "Webhook %s: sent (%d, %s)\n", ep.Label(), res.Status, res.Elapsed.Round(time.Millisecond))
	}
	return errors.Join(errs...)
}
