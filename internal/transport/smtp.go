package transport

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"english-bridge-mailer/internal/config"
)

// SMTP sends through a plain SMTP relay. Used for local development with
// a catch-all server and for deployments without a transactional provider.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTP creates an SMTP-backed transport.
func NewSMTP(cfg *config.MailConfig) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail),
	}
}

// Send implements Transport. gomail has no context support; the dialer's
// own network timeout is the effective bound, matching the scheduler's
// one-at-a-time send model.
func (s *SMTP) Send(ctx context.Context, to, subject, html string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// Name implements Transport.
func (s *SMTP) Name() string {
	return "smtp"
}
