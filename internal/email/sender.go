// Package email delivers operational notifications over SMTP.
package email

import (
	"context"

	"crm_portal_backend/platform/config"
)

type Sender interface {
	// SendMergeReviewEmail notifies an operator that a merge left fields
	// unresolved and needs a manual decision.
	SendMergeReviewEmail(ctx context.Context, toEmail, survivorID, archivedID string, fields []string) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// NoopSender is used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendMergeReviewEmail(ctx context.Context, toEmail, survivorID, archivedID string, fields []string) error {
	return nil
}

func (NoopSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}

// NewSender builds the configured sender. Disabled email yields a noop so
// callers never need nil checks.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(), cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
	), nil
}
