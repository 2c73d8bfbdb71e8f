package transport

import (
	"context"
	"errors"

	"english-bridge-mailer/internal/config"
)

// ErrNotConfigured is returned by the Unconfigured transport on every send.
// The scheduler logs it apart from provider rejections so operators can
// tell "no credentials" from "rejected by provider".
var ErrNotConfigured = errors.New("mail transport is not configured")

// Transport delivers one rendered email. Implementations convert every
// provider failure into an error value; nothing panics across this
// boundary.
type Transport interface {
	Send(ctx context.Context, to, subject, html string) error
	Name() string
}

// New picks the transport implementation for the configured provider.
// Config validation has already constrained Provider to a known value.
func New(cfg *config.MailConfig) Transport {
	switch cfg.Provider {
	case "postmark":
		return NewPostmark(cfg)
	case "smtp":
		return NewSMTP(cfg)
	default:
		return Unconfigured{}
	}
}

// Unconfigured stands in when no provider credentials are present. Every
// send fails uniformly with ErrNotConfigured; the process keeps running.
type Unconfigured struct{}

// Send implements Transport.
func (Unconfigured) Send(ctx context.Context, to, subject, html string) error {
	return ErrNotConfigured
}

// Name implements Transport.
func (Unconfigured) Name() string {
	return "unconfigured"
}
