package commands

import (
	"fmt"

	"github.com/eventsieve/eventsieve/pkg/config"
	"github.com/eventsieve/eventsieve/pkg/output"
	"github.com/eventsieve/eventsieve/pkg/webhook"
)

// fileSinks returns one sink per requested report file. Files never get
// colour.
func (r *run) fileSinks() []*output.FileSink {
	var sinks []*output.FileSink
	if r.opts.TextOutput != "" {
		sinks = append(sinks, output.NewFileSink(r.opts.TextOutput, output.NewTextFormatter(output.FormatOptions{})))
	}
	if r.opts.HTMLOutput != "" {
		sinks = append(sinks, r.htmlSink())
	}
	if r.opts.JSONOutput != "" {
		sinks = append(sinks, output.NewFileSink(r.opts.JSONOutput, output.NewJSONFormatter(output.FormatOptions{})))
	}
	return sinks
}

func (r *run) htmlSink() *output.FileSink {
	return output.NewFileSink(r.opts.HTMLOutput, output.NewHTMLFormatter())
}

// notifier returns a webhook notifier, or nil when no webhook is
// configured.
func (r *run) notifier() *webhook.Notifier {
	hooks := collectWebhooks(r.settings, r.opts)
	if len(hooks) == 0 {
		return nil
	}

	endpoints := make([]webhook.Endpoint, 0, len(hooks))
	for _, wh := range hooks {
		endpoints = append(endpoints, wh.Endpoint())
	}
	return webhook.NewNotifier(webhook.NewClient(), endpoints, r.stderr)
}

// collectWebhooks merges settings file webhooks with the CLI webhook.
func collectWebhooks(settings *config.Settings, opts *ScanOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(settings.Webhooks)+1)
	webhooks = append(webhooks, settings.Webhooks...)

	if opts.WebhookURL != "" {
		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: webhook.Trigger(opts.WebhookTrigger),
		})
	}

	return webhooks
}

// validateCLIWebhook checks the --webhook-* flags.
func validateCLIWebhook(opts *ScanOptions) error {
	if opts.WebhookURL == "" {
		return nil
	}
	wh := config.WebhookConfig{URL: opts.WebhookURL, Token: opts.WebhookToken, Trigger: webhook.Trigger(opts.WebhookTrigger)}
	if err := config.ValidateWebhook(&wh); err != nil {
		return fmt.Errorf("webhook flags: %w", err)
	}
	return nil
}
