package transport

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"

	"english-bridge-mailer/internal/config"
)

// Postmark sends through Postmark's transactional API.
type Postmark struct {
	client *postmark.Client
	from   string
}

// NewPostmark creates a Postmark-backed transport.
func NewPostmark(cfg *config.MailConfig) *Postmark {
	return &Postmark{
		client: postmark.NewClient(cfg.PostmarkToken, ""),
		from:   fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail),
	}
}

// Send implements Transport.
func (p *Postmark) Send(ctx context.Context, to, subject, html string) error {
	resp, err := p.client.SendEmail(ctx, postmark.Email{
		From:     p.from,
		To:       to,
		Subject:  subject,
		HTMLBody: html,
	})
	if err != nil {
		return fmt.Errorf("postmark send failed: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark rejected message: %d - %s", resp.ErrorCode, resp.Message)
	}
	return nil
}

// Name implements Transport.
func (p *Postmark) Name() string {
	return "postmark"
}
