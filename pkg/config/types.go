// Package config loads EventSieve settings from an optional settings file
// and the environment.
package config

import (
	"time"

	"github.com/eventsieve/eventsieve/pkg/webhook"
)

// Settings are the options that can be kept outside the command line.
type Settings struct {
	// RulesFile is the rule definition file.
	RulesFile string `mapstructure:"rules_file"`

	// Interval is the watch-mode poll interval in seconds.
	Interval float64 `mapstructure:"interval"`

	// MetricsAddr, if set, serves Prometheus metrics in watch mode.
	MetricsAddr string `mapstructure:"metrics_addr"`

	// NoColor disables console styling.
	NoColor bool `mapstructure:"no_color"`

	// Webhooks receive reports.
	Webhooks []WebhookConfig `mapstructure:"webhooks"`

	// File is the settings file that was read, if any.
	File string `mapstructure:"-"`
}

// PollInterval returns Interval as a duration.
func (s *Settings) PollInterval() time.Duration {
	return time.Duration(s.Interval * float64(time.Second))
}

// WebhookConfig defines a webhook endpoint for sending reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `mapstructure:"name"`

	// URL is the webhook endpoint (required).
	URL string `mapstructure:"url"`

	// Token is an optional bearer token. ${VAR} and $VAR are expanded
	// from the environment.
	Token string `mapstructure:"token"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_issues" if not specified.
	Trigger webhook.Trigger `mapstructure:"trigger"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Endpoint converts the configuration for the webhook client.
func (w WebhookConfig) Endpoint() webhook.Endpoint {
	return webhook.Endpoint{
		Name:    w.Name,
		URL:     w.URL,
		Token:   w.Token,
		Trigger: w.Trigger,
		Timeout: w.Timeout,
	}
}
