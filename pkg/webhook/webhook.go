// Package webhook posts activity reports to HTTP endpoints.
package webhook

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/eventsieve/eventsieve/pkg/output"
	"github.com/eventsieve/eventsieve/pkg/rules"
)

// DefaultTimeout bounds one delivery when the endpoint sets none.
const DefaultTimeout = 10 * time.Second

// Report headers let receivers route a delivery without decoding the body.
const (
	HeaderActivities = "X-EventSieve-Activities"
	HeaderSeverity   = "X-EventSieve-Severity"
)

const (
	userAgent = "eventsieve-webhook"

	// maxResponseBody caps how much of a reply is kept for diagnostics.
	maxResponseBody = 64 * 1024
)

// StatusError is a reply outside the 2xx range.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("endpoint returned status %d", e.Code)
	}
	return fmt.Sprintf("endpoint returned status %d: %s", e.Code, e.Body)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// Client posts reports as JSON.
type Client struct {
	hc *http.Client
}

// NewClient creates a client. Per-request timeouts come from the endpoint.
func NewClient(opts ...Option) *Client {
	c := &Client{hc: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result describes one delivery.
type Result struct {
	Status  int
	Body    string
	Elapsed time.Duration

	// Err is set for transport failures and non-2xx replies.
	Err error
}

// OK reports whether the endpoint accepted the report.
func (r Result) OK() bool {
	return r.Err == nil
}

// Post delivers report to ep.
func (c *Client) Post(ctx context.Context, ep Endpoint, report *output.Report) Result {
	start := time.Now()
	status, body, err := c.post(ctx, ep, report)
	return Result{Status: status, Body: body, Elapsed: time.Since(start), Err: err}
}

func (c *Client) post(ctx context.Context, ep Endpoint, report *output.Report) (int, string, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return 0, "", fmt.Errorf("encoding report: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cmp.Or(ep.Timeout, DefaultTimeout))
	defer cancel()

	req, err := newRequest(ctx, ep, report, payload)
	if err != nil {
		return 0, "", err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("sending report: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("reading reply: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, string(body), &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}
	return resp.StatusCode, string(body), nil
}

func newRequest(ctx context.Context, ep Endpoint, report *output.Report, payload []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	h := req.Header
	h.Set("Content-Type", "application/json")
	h.Set("User-Agent", userAgent)
	h.Set(HeaderActivities, strconv.Itoa(report.Summary.Total))
	if sev, ok := highestSeverity(report); ok {
		h.Set(HeaderSeverity, sev.String())
	}
	if ep.Token != "" {
		h.Set("Authorization", "Bearer "+ep.Token)
	}
	return req, nil
}

// highestSeverity returns the most severe level present in report.
func highestSeverity(report *output.Report) (rules.Severity, bool) {
	for _, s := range slices.Backward(rules.Severities) {
		if report.Summary.BySeverity[s] > 0 {
			return s, true
		}
	}
	return "", false
}
