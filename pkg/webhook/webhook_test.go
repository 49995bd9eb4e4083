package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eventsieve/eventsieve/pkg/analyzer"
	"github.com/eventsieve/eventsieve/pkg/output"
	"github.com/eventsieve/eventsieve/pkg/rules"
)

func newTestReport() *output.Report {
	return output.NewReport([]analyzer.Activity{
		{LineNumber: 12, LineContent: "failed login for root", RuleDescription: "Auth failure", Severity: rules.SeverityHigh, MatchedPattern: "failed login"},
		{LineNumber: 14, LineContent: "sudo: 3 incorrect password attempts", RuleDescription: "Sudo abuse", Severity: rules.SeverityMedium, MatchedPattern: "incorrect password"},
	}, output.Metadata{LogFile: "auth.log", RulesFile: "rules.json", GeneratedAt: time.Now()})
}

func TestClient_Post(t *testing.T) {
	var got *http.Request
	var body []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		body, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	res := NewClient().Post(context.Background(), Endpoint{URL: server.URL}, newTestReport())
	if !res.OK() {
		t.Fatalf("Post() error = %v", res.Err)
	}
	if res.Status != http.StatusOK || res.Body != `{"status":"ok"}` {
		t.Errorf("Result = %d %q", res.Status, res.Body)
	}

	headers := map[string]string{
		"Content-Type":   "application/json",
		"User-Agent":     "eventsieve-webhook",
		HeaderActivities: "2",
		HeaderSeverity:   "high",
		"Authorization":  "",
	}
	for name, want := range headers {
		if v := got.Header.Get(name); v != want {
			t.Errorf("header %s = %q, want %q", name, v, want)
		}
	}
	if got.Method != http.MethodPost {
		t.Errorf("method = %s, want POST", got.Method)
	}

	var payload struct {
		Activities []map[string]any `json:"activities"`
		Summary    struct {
			Total int `json:"total"`
		} `json:"summary"`
		Metadata map[string]any `json:"metadata"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if len(payload.Activities) != 2 || payload.Summary.Total != 2 || payload.Metadata["log_file"] != "auth.log" {
		t.Errorf("unexpected payload %s", body)
	}
}

func TestClient_Post_BearerToken(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	res := NewClient().Post(context.Background(), Endpoint{URL: server.URL, Token: "secret-token-123"}, newTestReport())
	if !res.OK() {
		t.Fatalf("Post() error = %v", res.Err)
	}
	if auth != "Bearer secret-token-123" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestClient_Post_EmptyReportHasNoSeverity(t *testing.T) {
	var header http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
	}))
	defer server.Close()

	res := NewClient().Post(context.Background(), Endpoint{URL: server.URL}, output.NewReport(nil, output.Metadata{}))
	if !res.OK() {
		t.Fatalf("Post() error = %v", res.Err)
	}
	if header.Get(HeaderActivities) != "0" {
		t.Errorf("%s = %q, want 0", HeaderActivities, header.Get(HeaderActivities))
	}
	if _, ok := header[HeaderSeverity]; ok {
		t.Errorf("%s should not be set for an empty report", HeaderSeverity)
	}
}

func TestClient_Post_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	res := NewClient().Post(context.Background(), Endpoint{URL: server.URL}, newTestReport())
	if res.OK() {
		t.Fatal("expected failure")
	}

	var se *StatusError
	if !errors.As(res.Err, &se) {
		t.Fatalf("error = %v, want *StatusError", res.Err)
	}
	if se.Code != http.StatusInternalServerError || se.Body != "internal error" {
		t.Errorf("StatusError = %+v", se)
	}
	if res.Err.Error() != "endpoint returned status 500: internal error" {
		t.Errorf("Error() = %q", res.Err.Error())
	}
}

func TestClient_Post_Failures(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name string
		ep   Endpoint
	}{
		{"timeout", Endpoint{URL: slow.URL, Timeout: 50 * time.Millisecond}},
		{"invalid url", Endpoint{URL: "://invalid-url"}},
		{"connection refused", Endpoint{URL: closedURL, Timeout: time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewClient().Post(context.Background(), tt.ep, newTestReport())
			if res.OK() || res.Err == nil {
				t.Errorf("expected failure, got %+v", res)
			}
			if res.Status != 0 {
				t.Errorf("Status = %d, want 0", res.Status)
			}
		})
	}
}

func TestWithHTTPClient(t *testing.T) {
	hc := &http.Client{Timeout: time.Second}
	if c := NewClient(WithHTTPClient(hc)); c.hc != hc {
		t.Error("WithHTTPClient did not replace the client")
	}
	if c := NewClient(WithHTTPClient(nil)); c.hc == nil {
		t.Error("WithHTTPClient(nil) cleared the client")
	}
}

func TestHighestSeverity(t *testing.T) {
	tests := []struct {
		name       string
		severities []rules.Severity
		want       rules.Severity
		ok         bool
	}{
		{"none", nil, "", false},
		{"single", []rules.Severity{rules.SeverityLow}, rules.SeverityLow, true},
		{"mixed", []rules.Severity{rules.SeverityLow, rules.SeverityCritical, rules.SeverityMedium}, rules.SeverityCritical, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var activities []analyzer.Activity
			for _, s := range tt.severities {
				activities = append(activities, analyzer.Activity{Severity: s})
			}
			got, ok := highestSeverity(output.NewReport(activities, output.Metadata{}))
			if got != tt.want || ok != tt.ok {
				t.Errorf("highestSeverity() = %q, %v, want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}
