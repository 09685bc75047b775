// Package mailer delivers rendered email messages over a configured transport.
package mailer

import (
	"context"
	"fmt"
	"net/mail"

	"go.uber.org/zap"

	"github.com/wallofhumanity/backend/config"
)

// Message is a rendered HTML email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	// Kind labels the message for metrics and logs, e.g. "request_created".
	Kind string `json:"kind"`
}

// Transport sends a message. Implementations must be safe for concurrent use.
type Transport interface {
	Send(ctx context.Context, msg Message) error
	Close() error
}

// Sender identifies the From header.
type Sender struct {
	Name  string
	Email string
}

func (s Sender) String() string {
	return (&mail.Address{Name: s.Name, Address: s.Email}).String()
}

// New builds the transport selected by cfg.Transport.
func New(cfg config.MailConfig, logger *zap.Logger) (Transport, error) {
	from := Sender{Name: cfg.FromName, Email: cfg.FromEmail}
	switch cfg.Transport {
	case "smtp":
		return NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, from), nil
	case "kafka":
		return NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic, from), nil
	case "", "log":
		return NewLog(logger), nil
	default:
		return nil, fmt.Errorf("mailer: unsupported transport %q", cfg.Transport)
	}
}
