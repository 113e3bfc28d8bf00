package webhook

import (
	"context"
	"errors"

	"crm_portal_backend/internal/leads/transport"
	"crm_portal_backend/platform/logger"

	"github.com/google/uuid"
)

var ErrIncompleteSubmission = errors.New("submission is missing name or contact fields")

// LeadGateway is the slice of the leads service the webhook capture needs.
type LeadGateway interface {
	CheckDuplicate(ctx context.Context, req transport.CheckDuplicateRequest) (transport.DuplicateMatchResponse, error)
	Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error)
}

// ActivityRecorder writes audit trail entries on existing leads.
type ActivityRecorder interface {
	AddActivity(ctx context.Context, leadID uuid.UUID, actorID *uuid.UUID, action string, meta map[string]any) error
}

// SubmissionResult reports what happened to an inbound form submission.
type SubmissionResult struct {
	Status    string     `json:"status"` // "created" or "duplicate"
	LeadID    *uuid.UUID `json:"leadId,omitempty"`
	MatchType string     `json:"matchType,omitempty"`
	Score     int        `json:"score,omitempty"`
}

type Service struct {
	leads    LeadGateway
	activity ActivityRecorder
	log      *logger.Logger
}

func NewService(leads LeadGateway, activity ActivityRecorder, log *logger.Logger) *Service {
	return &Service{leads: leads, activity: activity, log: log}
}

// ProcessSubmission turns raw form data into a lead. When the classifier
// matches an existing lead, no new record is created: the hit is stored for
// review and the existing lead is reported back.
func (s *Service) ProcessSubmission(ctx context.Context, data map[string]string, defaultOrigem string) (SubmissionResult, error) {
	fields := ExtractFields(data)
	if fields.IsIncomplete() {
		return SubmissionResult{}, ErrIncompleteSubmission
	}

	origem := fields.Origem
	if origem == "" {
		origem = defaultOrigem
	}

	match, err := s.leads.CheckDuplicate(ctx, transport.CheckDuplicateRequest{
		Nome:     fields.Nome,
		Telefone: fields.Telefone,
		Email:    fields.Email,
	})
	if err != nil {
		return SubmissionResult{}, err
	}

	if match.Match && match.LeadID != nil {
		// Suppress creation. The re-contact lands on the existing lead's
		// audit trail instead of producing a second record.
		if err := s.activity.AddActivity(ctx, *match.LeadID, nil, "webhook_duplicate_suppressed", map[string]any{
			"matchType": match.Type,
			"score":     match.Score,
			"nome":      fields.Nome,
			"origem":    origem,
		}); err != nil {
			s.log.Error("failed to record suppressed submission", "error", err, "leadId", match.LeadID)
		}

		s.log.DuplicateDetected(match.LeadID.String(), match.Type, match.Score)
		return SubmissionResult{
			Status:    "duplicate",
			LeadID:    match.LeadID,
			MatchType: match.Type,
			Score:     match.Score,
		}, nil
	}

	lead, err := s.leads.Create(ctx, transport.CreateLeadRequest{
		Nome:        fields.Nome,
		Telefone:    fields.Telefone,
		Email:       fields.Email,
		Empresa:     fields.Empresa,
		Necessidade: fields.Necessidade,
		Origem:      origem,
		// The classifier already ran above; skip the create-side guard so
		// a lead arriving between the two checks cannot wedge the webhook.
		Force: true,
	})
	if err != nil {
		return SubmissionResult{}, err
	}

	id := lead.ID
	return SubmissionResult{Status: "created", LeadID: &id}, nil
}
