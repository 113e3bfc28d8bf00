package dedup

import (
	"testing"
	"time"

	"crm_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

func existingLead(nome, telefone, email string, updatedAt time.Time) domain.Lead {
	return domain.Lead{
		ID:        uuid.New(),
		Nome:      nome,
		Telefone:  telefone,
		Email:     email,
		Estagio:   domain.StageNovo,
		UpdatedAt: updatedAt,
	}
}

func TestClassifyPhoneExactOutranksEmail(t *testing.T) {
	// One lead shares the phone, a different lead shares the email. The
	// phone tier must win and the email tier must never be consulted.
	byPhone := existingLead("Carlos Lima", "+55 11 99999-0000", "outro@exemplo.com.br", day("2023-01-01"))
	byEmail := existingLead("Carlos Lima", "+5511911112222", "carlos@exemplo.com.br", day("2024-01-01"))

	match := Classify(Candidate{
		Nome:     "Carlos Lima",
		Telefone: "11999990000",
		Email:    "carlos@exemplo.com.br",
	}, []domain.Lead{byEmail, byPhone})

	if match.Type != MatchPhoneExact {
		t.Fatalf("expected phone_exact, got %q", match.Type)
	}
	if match.Score != 100 {
		t.Fatalf("expected score 100, got %d", match.Score)
	}
	if match.LeadID != byPhone.ID {
		t.Fatal("matched the wrong lead")
	}
}

func TestClassifyPhoneIgnoresFormatting(t *testing.T) {
	lead := existingLead("Ana Paula", "(11) 98888-7777", "", day("2024-01-01"))

	match := Classify(Candidate{Telefone: "+55 11 98888 7777"}, []domain.Lead{lead})

	if match.Type != MatchPhoneExact || match.LeadID != lead.ID {
		t.Fatalf("formatting differences must not break phone matching, got %+v", match)
	}
}

func TestClassifyEmailExactCaseInsensitive(t *testing.T) {
	lead := existingLead("Ana Paula", "", "Ana.Paula@Exemplo.com.br", day("2024-01-01"))

	match := Classify(Candidate{
		Nome:  "Pessoa Diferente",
		Email: "ana.paula@exemplo.com.br",
	}, []domain.Lead{lead})

	if match.Type != MatchEmailExact {
		t.Fatalf("expected email_exact, got %q", match.Type)
	}
	if match.Score != 95 {
		t.Fatalf("expected score 95, got %d", match.Score)
	}
}

func TestClassifyTieBreaksOnMostRecentlyUpdated(t *testing.T) {
	older := existingLead("João", "11999990000", "", day("2022-01-01"))
	newer := existingLead("João", "11999990000", "", day("2024-01-01"))

	match := Classify(Candidate{Telefone: "11999990000"}, []domain.Lead{older, newer})

	if match.LeadID != newer.ID {
		t.Fatal("tie must go to the most recently updated lead")
	}
}

func TestClassifyFuzzyNameAboveThreshold(t *testing.T) {
	lead := existingLead("Fernanda Oliveira", "", "", day("2024-01-01"))

	match := Classify(Candidate{Nome: "Fernanda Olivera"}, []domain.Lead{lead})

	if match.Type != MatchNameFuzzy {
		t.Fatalf("expected name_fuzzy, got %q", match.Type)
	}
	if match.Score < MinNameScore || match.Score >= 100 {
		t.Fatalf("expected score in [70, 100), got %d", match.Score)
	}
}

func TestClassifyFuzzyNameBelowThreshold(t *testing.T) {
	lead := existingLead("Fernanda Oliveira", "", "", day("2024-01-01"))

	match := Classify(Candidate{Nome: "Roberto Costa"}, []domain.Lead{lead})

	if match.Type != MatchNone || match.Score != 0 {
		t.Fatalf("dissimilar names must not match, got %+v", match)
	}
}

func TestClassifyEmptyContactNeverMatchesEmpty(t *testing.T) {
	lead := existingLead("", "", "", day("2024-01-01"))

	match := Classify(Candidate{}, []domain.Lead{lead})

	if match.Type != MatchNone {
		t.Fatalf("empty candidate must not match empty lead, got %+v", match)
	}
}

func TestClassifyNoLeads(t *testing.T) {
	match := Classify(Candidate{Nome: "Alguém", Telefone: "11999990000"}, nil)

	if match.Type != MatchNone || match.Score != 0 {
		t.Fatalf("expected no_match against empty set, got %+v", match)
	}
}

func TestNameSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a    string
		b    string
		min  int
		max  int
	}{
		{"identical", "Maria Souza", "Maria Souza", 100, 100},
		{"case and spacing", "  maria   SOUZA ", "Maria Souza", 100, 100},
		{"one typo", "Maria Souza", "Maria Sousa", 85, 99},
		{"unrelated", "Maria Souza", "Pedro Henrique", 0, 40},
		{"empty left", "", "Maria Souza", 0, 0},
		{"both empty", "", "", 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NameSimilarity(tc.a, tc.b)
			if got < tc.min || got > tc.max {
				t.Fatalf("NameSimilarity(%q, %q) = %d, want within [%d, %d]", tc.a, tc.b, got, tc.min, tc.max)
			}
		})
	}
}
