// Package mailer sends transactional email over SMTP.
package mailer

import (
	"fmt"

	mail "github.com/wneessen/go-mail"

	"github.com/campus-awards/backend/config"
)

// Mailer sends plain-text email using the configured SMTP relay.
type Mailer struct {
	cfg config.EmailConfig
}

// New creates a mailer from SMTP settings.
func New(cfg config.EmailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether an SMTP host is configured. When disabled the
// worker logs codes instead of sending, which keeps local development
// working without a relay.
func (m *Mailer) Enabled() bool {
	return m.cfg.SMTPHost != ""
}

// Send delivers a plain-text message to a single recipient.
func (m *Mailer) Send(to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.FromAddress); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(m.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.SMTPUser),
		mail.WithPassword(m.cfg.SMTPPass),
	}
	client, err := mail.NewClient(m.cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}
