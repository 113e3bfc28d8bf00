package dedup

import (
	"strings"
	"testing"
	"time"

	"crm_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testLead(mutate func(*domain.Lead)) domain.Lead {
	lead := domain.Lead{
		ID:        uuid.New(),
		Nome:      "Maria Souza",
		Telefone:  "+5511999990000",
		Email:     "maria@exemplo.com.br",
		Empresa:   "Souza Ltda",
		Estagio:   domain.StageNovo,
		UpdatedAt: day("2024-01-01"),
	}
	if mutate != nil {
		mutate(&lead)
	}
	return lead
}

func decisionFor(t *testing.T, result MergedLeadResult, field Field) MergeDecision {
	t.Helper()
	for _, d := range result.Decisions {
		if d.Field == field {
			return d
		}
	}
	t.Fatalf("no decision recorded for field %q", field)
	return MergeDecision{}
}

func TestResolveMostCompleteEmptyNeverWins(t *testing.T) {
	// A is newer but has no company; recency must not rescue the empty value.
	a := testLead(func(l *domain.Lead) {
		l.Empresa = ""
		l.UpdatedAt = day("2024-06-01")
	})
	b := testLead(func(l *domain.Lead) {
		l.Empresa = "Souza Comércio de Alimentos Ltda"
		l.UpdatedAt = day("2023-01-01")
	})

	result := Resolve(a, b, DefaultRuleSet())

	if result.Merged.Empresa == nil || *result.Merged.Empresa != b.Empresa {
		t.Fatalf("expected B's company to win, got %v", result.Merged.Empresa)
	}
	d := decisionFor(t, result, FieldEmpresa)
	if d.Chosen != SideB {
		t.Fatalf("expected B chosen for empresa, got %q (%s)", d.Chosen, d.Reason)
	}
}

func TestResolveMostCompletePrefersLongerValue(t *testing.T) {
	a := testLead(func(l *domain.Lead) { l.Necessidade = "trocar janelas" })
	b := testLead(func(l *domain.Lead) {
		l.Necessidade = "trocar todas as janelas da casa por modelos antirruído"
	})

	result := Resolve(a, b, DefaultRuleSet())

	if result.Merged.Necessidade == nil || *result.Merged.Necessidade != b.Necessidade {
		t.Fatalf("expected the more detailed need to win, got %v", result.Merged.Necessidade)
	}
}

func TestResolveNewestSelectsLaterTimestamp(t *testing.T) {
	a := testLead(func(l *domain.Lead) {
		l.Origem = "indicacao"
		l.UpdatedAt = day("2023-03-01")
	})
	b := testLead(func(l *domain.Lead) {
		l.Origem = "whatsapp"
		l.UpdatedAt = day("2024-03-01")
	})

	result := Resolve(a, b, DefaultRuleSet())

	if result.Merged.Origem == nil || *result.Merged.Origem != "whatsapp" {
		t.Fatalf("expected newest origem to win, got %v", result.Merged.Origem)
	}
	d := decisionFor(t, result, FieldOrigem)
	if d.Chosen != SideB || !strings.Contains(d.Reason, "recently updated") {
		t.Fatalf("unexpected origem decision: %+v", d)
	}
}

// Later pipeline stage wins both estagio and score_bant, even when the
// further-along record is older and its numeric score is lower.
func TestResolveStageOrderGovernsScore(t *testing.T) {
	a := testLead(func(l *domain.Lead) {
		l.Estagio = domain.StageNovo
		l.ScoreBant = 80
		l.UpdatedAt = day("2024-01-01")
	})
	b := testLead(func(l *domain.Lead) {
		l.Estagio = domain.StageReuniaoAgendada
		l.ScoreBant = 40
		l.UpdatedAt = day("2023-06-01")
	})

	result := Resolve(a, b, DefaultRuleSet())

	if result.Merged.Estagio == nil || *result.Merged.Estagio != domain.StageReuniaoAgendada {
		t.Fatalf("expected stage %q, got %v", domain.StageReuniaoAgendada, result.Merged.Estagio)
	}
	if result.Merged.ScoreBant == nil || *result.Merged.ScoreBant != 40 {
		t.Fatalf("expected score 40 from the further-along record, got %v", result.Merged.ScoreBant)
	}

	d := decisionFor(t, result, FieldScoreBant)
	if d.Chosen != SideB {
		t.Fatalf("expected B chosen for score_bant, got %q", d.Chosen)
	}
	if !strings.Contains(d.Reason, "pipeline") {
		t.Fatalf("score_bant reason must reference the pipeline order, got %q", d.Reason)
	}
	if strings.Contains(d.Reason, "updated") {
		t.Fatalf("score_bant reason must not reference recency, got %q", d.Reason)
	}
}

func TestResolveKeepBothRetainsBothPhones(t *testing.T) {
	a := testLead(func(l *domain.Lead) { l.Telefone = "11999990000" })
	b := testLead(func(l *domain.Lead) { l.Telefone = "11988880000" })

	result := Resolve(a, b, DefaultRuleSet())

	if result.Merged.Telefone == nil {
		t.Fatal("expected a primary phone")
	}
	primary := *result.Merged.Telefone
	if len(result.Merged.TelefonesAlternativos) != 1 {
		t.Fatalf("expected 1 alternate phone, got %v", result.Merged.TelefonesAlternativos)
	}
	alternate := result.Merged.TelefonesAlternativos[0]

	got := map[string]bool{primary: true, alternate: true}
	if !got["11999990000"] || !got["11988880000"] {
		t.Fatalf("both phones must be retained, got primary=%q alternate=%q", primary, alternate)
	}
}

func TestResolveKeepBothSkipsAlternateWhenEqual(t *testing.T) {
	a := testLead(nil)
	b := testLead(nil)

	result := Resolve(a, b, DefaultRuleSet())

	if len(result.Merged.TelefonesAlternativos) != 0 {
		t.Fatalf("identical phones must not produce alternates, got %v", result.Merged.TelefonesAlternativos)
	}
	if len(result.Merged.EmailsAlternativos) != 0 {
		t.Fatalf("identical emails must not produce alternates, got %v", result.Merged.EmailsAlternativos)
	}
}

func TestResolveManualFieldIsDeferred(t *testing.T) {
	a := testLead(func(l *domain.Lead) { l.Proposta = "proposta A" })
	b := testLead(func(l *domain.Lead) { l.Proposta = "proposta B" })

	result := Resolve(a, b, DefaultRuleSet())

	if result.Merged.Proposta != nil {
		t.Fatalf("manual field must stay unset, got %q", *result.Merged.Proposta)
	}

	d := decisionFor(t, result, FieldProposta)
	if !d.Deferred || d.Chosen != SideNone {
		t.Fatalf("expected deferred decision, got %+v", d)
	}
	if d.Reason != "manual resolution required" {
		t.Fatalf("unexpected deferral reason %q", d.Reason)
	}
	if d.ValueA != "proposta A" || d.ValueB != "proposta B" {
		t.Fatalf("deferred decision must carry both candidate values, got %+v", d)
	}

	if len(result.Deferred) != 1 || result.Deferred[0] != FieldProposta {
		t.Fatalf("expected proposta in deferred list, got %v", result.Deferred)
	}
}

// Swapping the inputs may flip the recorded A/B labels but never the values.
func TestResolveIsSymmetric(t *testing.T) {
	a := testLead(func(l *domain.Lead) {
		l.Nome = "Maria S."
		l.Telefone = "11999990000"
		l.Email = ""
		l.Empresa = "Souza Ltda"
		l.Estagio = domain.StagePropostaEnviada
		l.ScoreBant = 55
		l.UpdatedAt = day("2023-09-09")
	})
	b := testLead(func(l *domain.Lead) {
		l.Nome = "Maria Souza da Silva"
		l.Telefone = "11988880000"
		l.Email = "maria@exemplo.com.br"
		l.Empresa = ""
		l.Estagio = domain.StageSegundoContato
		l.ScoreBant = 90
		l.UpdatedAt = day("2024-02-02")
	})

	rules := DefaultRuleSet()
	ab := Resolve(a, b, rules)
	ba := Resolve(b, a, rules)

	checks := []struct {
		name string
		ab   *string
		ba   *string
	}{
		{"nome", ab.Merged.Nome, ba.Merged.Nome},
		{"telefone", ab.Merged.Telefone, ba.Merged.Telefone},
		{"email", ab.Merged.Email, ba.Merged.Email},
		{"empresa", ab.Merged.Empresa, ba.Merged.Empresa},
		{"estagio", ab.Merged.Estagio, ba.Merged.Estagio},
		{"origem", ab.Merged.Origem, ba.Merged.Origem},
	}
	for _, c := range checks {
		left, right := "", ""
		if c.ab != nil {
			left = *c.ab
		}
		if c.ba != nil {
			right = *c.ba
		}
		if left != right {
			t.Fatalf("field %s not symmetric: %q vs %q", c.name, left, right)
		}
	}

	if ab.Merged.ScoreBant == nil || ba.Merged.ScoreBant == nil || *ab.Merged.ScoreBant != *ba.Merged.ScoreBant {
		t.Fatalf("score_bant not symmetric: %v vs %v", ab.Merged.ScoreBant, ba.Merged.ScoreBant)
	}
}

func TestResolveEqualTimestampsFallBackToCompleteness(t *testing.T) {
	when := day("2024-05-05")
	a := testLead(func(l *domain.Lead) {
		l.Origem = "form"
		l.UpdatedAt = when
	})
	b := testLead(func(l *domain.Lead) {
		l.Origem = "campanha-inverno"
		l.UpdatedAt = when
	})

	result := Resolve(a, b, DefaultRuleSet())

	if result.Merged.Origem == nil || *result.Merged.Origem != "campanha-inverno" {
		t.Fatalf("expected completeness fallback on timestamp tie, got %v", result.Merged.Origem)
	}
}

func TestResolveEmitsOneDecisionPerGovernedField(t *testing.T) {
	a := testLead(nil)
	b := testLead(nil)

	rules := DefaultRuleSet()
	result := Resolve(a, b, rules)

	if len(result.Decisions) != len(rules.Rules()) {
		t.Fatalf("expected %d decisions, got %d", len(rules.Rules()), len(result.Decisions))
	}
}
