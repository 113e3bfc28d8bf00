// Package notification bridges domain events to outbound channels. It has no
// HTTP surface; it subscribes to the event bus and delivers emails.
package notification

import (
	"context"

	"crm_portal_backend/internal/email"
	"crm_portal_backend/internal/events"
	"crm_portal_backend/platform/config"
	"crm_portal_backend/platform/logger"
)

type Module struct {
	sender    email.Sender
	recipient string
	log       *logger.Logger
}

func New(sender email.Sender, cfg config.EmailConfig, log *logger.Logger) *Module {
	return &Module{
		sender:    sender,
		recipient: cfg.GetMergeReviewRecipient(),
		log:       log,
	}
}

// RegisterHandlers subscribes the module to the domain events it acts on.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.MergeReviewRequired{}.EventName(), events.HandlerFunc(m.onMergeReviewRequired))
	bus.Subscribe(events.LeadsMerged{}.EventName(), events.HandlerFunc(m.onLeadsMerged))
}

func (m *Module) onMergeReviewRequired(ctx context.Context, event events.Event) error {
	e, ok := event.(events.MergeReviewRequired)
	if !ok {
		return nil
	}

	if m.recipient == "" {
		m.log.Warn("merge review required but no recipient configured",
			"survivorId", e.SurvivorID, "fields", e.Fields)
		return nil
	}

	if err := m.sender.SendMergeReviewEmail(ctx, m.recipient,
		e.SurvivorID.String(), e.ArchivedID.String(), e.Fields); err != nil {
		m.log.Error("failed to send merge review email", "error", err, "survivorId", e.SurvivorID)
		return err
	}
	return nil
}

func (m *Module) onLeadsMerged(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadsMerged)
	if !ok {
		return nil
	}

	m.log.MergeApplied(e.SurvivorID.String(), e.ArchivedID.String(), e.Decisions, len(e.Deferred))
	return nil
}
