package config

import "github.com/eventsieve/eventsieve/pkg/webhook"

// Default values for configuration.
const (
	DefaultRulesFile      = "rules.json"
	DefaultInterval       = 1.0
	DefaultWebhookTimeout = webhook.DefaultTimeout

	webhookDefaultTrigger = webhook.TriggerOnIssues
)

// Settings file lookup.
const (
	// FileName is the settings file searched for in the working and home
	// directories, without extension.
	FileName = ".eventsieve"

	// EnvPrefix prefixes environment overrides, e.g. EVENTSIEVE_RULES_FILE.
	EnvPrefix = "EVENTSIEVE"
)

// Keys of the settings that have defaults.
const (
	KeyRulesFile   = "rules_file"
	KeyInterval    = "interval"
	KeyMetricsAddr = "metrics_addr"
	KeyNoColor     = "no_color"
)

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() *Settings {
	return &Settings{
		RulesFile: DefaultRulesFile,
		Interval:  DefaultInterval,
	}
}
