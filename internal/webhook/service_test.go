package webhook

import (
	"context"
	"errors"
	"testing"

	"crm_portal_backend/internal/leads/transport"
	"crm_portal_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeGateway struct {
	match   transport.DuplicateMatchResponse
	created []transport.CreateLeadRequest
	lead    transport.LeadResponse
}

func (g *fakeGateway) CheckDuplicate(_ context.Context, _ transport.CheckDuplicateRequest) (transport.DuplicateMatchResponse, error) {
	return g.match, nil
}

func (g *fakeGateway) Create(_ context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	g.created = append(g.created, req)
	return g.lead, nil
}

type fakeActivity struct {
	entries []struct {
		leadID uuid.UUID
		action string
		meta   map[string]any
	}
}

func (a *fakeActivity) AddActivity(_ context.Context, leadID uuid.UUID, _ *uuid.UUID, action string, meta map[string]any) error {
	a.entries = append(a.entries, struct {
		leadID uuid.UUID
		action string
		meta   map[string]any
	}{leadID, action, meta})
	return nil
}

func TestProcessSubmissionCreatesLead(t *testing.T) {
	gateway := &fakeGateway{lead: transport.LeadResponse{ID: uuid.New()}}
	svc := NewService(gateway, &fakeActivity{}, logger.New("test"))

	result, err := svc.ProcessSubmission(context.Background(), map[string]string{
		"nome":     "Maria Souza",
		"telefone": "(11) 98888-7777",
		"mensagem": "Quero um orçamento",
	}, "webhook:site")
	if err != nil {
		t.Fatalf("ProcessSubmission: %v", err)
	}

	if result.Status != "created" {
		t.Fatalf("Status = %q, want created", result.Status)
	}
	if result.LeadID == nil || *result.LeadID != gateway.lead.ID {
		t.Fatal("result missing created lead id")
	}
	if len(gateway.created) != 1 {
		t.Fatalf("Create called %d times", len(gateway.created))
	}
	req := gateway.created[0]
	if !req.Force {
		t.Fatal("webhook create must skip the duplicate guard, the check already ran")
	}
	if req.Origem != "webhook:site" {
		t.Fatalf("Origem = %q, want the default origem", req.Origem)
	}
}

func TestProcessSubmissionKeepsExplicitOrigem(t *testing.T) {
	gateway := &fakeGateway{lead: transport.LeadResponse{ID: uuid.New()}}
	svc := NewService(gateway, &fakeActivity{}, logger.New("test"))

	_, err := svc.ProcessSubmission(context.Background(), map[string]string{
		"nome":       "Maria Souza",
		"telefone":   "(11) 98888-7777",
		"utm_source": "instagram",
	}, "webhook:site")
	if err != nil {
		t.Fatalf("ProcessSubmission: %v", err)
	}
	if got := gateway.created[0].Origem; got != "instagram" {
		t.Fatalf("Origem = %q, want the submitted value", got)
	}
}

func TestProcessSubmissionSuppressesDuplicates(t *testing.T) {
	existingID := uuid.New()
	gateway := &fakeGateway{match: transport.DuplicateMatchResponse{
		Match:  true,
		Type:   "phone_exact",
		Score:  100,
		LeadID: &existingID,
	}}
	activity := &fakeActivity{}
	svc := NewService(gateway, activity, logger.New("test"))

	result, err := svc.ProcessSubmission(context.Background(), map[string]string{
		"nome":     "Maria Souza",
		"telefone": "(11) 98888-7777",
	}, "webhook:site")
	if err != nil {
		t.Fatalf("ProcessSubmission: %v", err)
	}

	if result.Status != "duplicate" {
		t.Fatalf("Status = %q, want duplicate", result.Status)
	}
	if result.LeadID == nil || *result.LeadID != existingID {
		t.Fatal("result must point at the existing lead")
	}
	if result.MatchType != "phone_exact" || result.Score != 100 {
		t.Fatalf("match = %s/%d", result.MatchType, result.Score)
	}
	if len(gateway.created) != 0 {
		t.Fatal("duplicate submission created a lead")
	}
	if len(activity.entries) != 1 || activity.entries[0].action != "webhook_duplicate_suppressed" {
		t.Fatalf("activity entries = %+v", activity.entries)
	}
	if activity.entries[0].leadID != existingID {
		t.Fatal("suppression recorded on the wrong lead")
	}
}

func TestProcessSubmissionRejectsIncomplete(t *testing.T) {
	gateway := &fakeGateway{}
	svc := NewService(gateway, &fakeActivity{}, logger.New("test"))

	_, err := svc.ProcessSubmission(context.Background(), map[string]string{
		"mensagem": "Sem contato nenhum",
	}, "webhook:site")
	if !errors.Is(err, ErrIncompleteSubmission) {
		t.Fatalf("error = %v, want ErrIncompleteSubmission", err)
	}
	if len(gateway.created) != 0 {
		t.Fatal("incomplete submission created a lead")
	}
}
