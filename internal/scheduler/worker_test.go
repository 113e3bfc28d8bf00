package scheduler

import (
	"testing"
	"time"

	"crm_portal_backend/internal/leads/dedup"
	"crm_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

func scanLead(nome, telefone, email string) domain.Lead {
	return domain.Lead{
		ID:        uuid.New(),
		Nome:      nome,
		Telefone:  telefone,
		Email:     email,
		Estagio:   domain.StageNovo,
		UpdatedAt: time.Now(),
	}
}

func TestScanLeadsFindsPhonePairs(t *testing.T) {
	a := scanLead("Carlos Mendes", "+5511988887777", "carlos@acme.com.br")
	b := scanLead("C. Mendes", "(11) 98888-7777", "")
	c := scanLead("Outra Pessoa", "+5521977771234", "outra@example.com")

	hits := ScanLeads([]domain.Lead{a, b, c})

	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1: %+v", len(hits), hits)
	}
	if hits[0].LeadID != a.ID || hits[0].Match.LeadID != b.ID {
		t.Fatalf("hit pair = %s/%s, want %s/%s", hits[0].LeadID, hits[0].Match.LeadID, a.ID, b.ID)
	}
	if hits[0].Match.Type != dedup.MatchPhoneExact {
		t.Fatalf("match type = %s", hits[0].Match.Type)
	}
}

func TestScanLeadsEachPairReportedOnce(t *testing.T) {
	a := scanLead("Ana Lima", "+5511988887777", "")
	b := scanLead("Ana Lima", "+5511988887777", "")

	hits := ScanLeads([]domain.Lead{a, b})

	// The scan compares each lead only against the ones after it, so a
	// duplicate pair produces exactly one hit, not two mirrored ones.
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
}

func TestScanLeadsNoDuplicates(t *testing.T) {
	leads := []domain.Lead{
		scanLead("Pessoa Um", "+5511988880001", "um@example.com"),
		scanLead("Indivíduo Dois", "+5511988880002", "dois@example.com"),
	}

	if hits := ScanLeads(leads); len(hits) != 0 {
		t.Fatalf("unexpected hits: %+v", hits)
	}
}

func TestScanLeadsEmptyAndSingle(t *testing.T) {
	if hits := ScanLeads(nil); len(hits) != 0 {
		t.Fatalf("nil input produced hits: %+v", hits)
	}
	if hits := ScanLeads([]domain.Lead{scanLead("Solo", "+5511988887777", "")}); len(hits) != 0 {
		t.Fatalf("single lead produced hits: %+v", hits)
	}
}

func TestParseDedupScanPayload(t *testing.T) {
	task, err := NewDedupScanTask(DedupScanPayload{BatchSize: 250})
	if err != nil {
		t.Fatalf("NewDedupScanTask: %v", err)
	}
	if task.Type() != TaskDedupScan {
		t.Fatalf("task type = %q", task.Type())
	}

	payload, err := ParseDedupScanPayload(task)
	if err != nil {
		t.Fatalf("ParseDedupScanPayload: %v", err)
	}
	if payload.BatchSize != 250 {
		t.Fatalf("BatchSize = %d, want 250", payload.BatchSize)
	}
}
