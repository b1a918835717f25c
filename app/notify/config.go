package notify

import (
	"strings"
	"time"

	"github.com/joefazee/wagerbook/internal/logger"
)

type Config struct {
	WebhookURL     string        `env:"NOTIFY_WEBHOOK_URL" yaml:"webhook_url"`
	WebhookSecret  string        `env:"NOTIFY_WEBHOOK_SECRET" yaml:"webhook_secret"`
	WebhookTimeout time.Duration `env:"NOTIFY_WEBHOOK_TIMEOUT" env-default:"5s" yaml:"webhook_timeout"`
	// Kinds is a comma separated allow list; empty allows every kind.
	Kinds     string `env:"NOTIFY_KINDS" yaml:"kinds"`
	QueueSize int    `env:"NOTIFY_QUEUE_SIZE" env-default:"256" yaml:"queue_size"`
}

func GetDefaultConfig() *Config {
	return &Config{WebhookTimeout: 5 * time.Second, QueueSize: 256}
}

// New builds and starts the dispatcher: always a LogSender, plus a WebhookSender when a URL is set.
func New(cfg *Config, log logger.Logger) *Dispatcher {
	senders := []Sender{NewLogSender(log)}
	if cfg.WebhookURL != "" {
		senders = append(senders, NewWebhookSender(cfg.WebhookURL, cfg.WebhookSecret, cfg.WebhookTimeout))
	}
	var kinds []string
	if cfg.Kinds != "" {
		kinds = strings.Split(cfg.Kinds, ",")
	}
	return NewDispatcher(senders, kinds, cfg.QueueSize, log)
}
