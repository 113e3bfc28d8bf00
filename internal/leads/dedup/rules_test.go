package dedup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"crm_portal_backend/platform/apperr"
)

func TestNewRuleSetRejectsInvalidTables(t *testing.T) {
	cases := []struct {
		name  string
		rules []Rule
	}{
		{"unknown field", []Rule{{Field: "cpf", Priority: PriorityNewest}}},
		{"unknown priority", []Rule{{Field: FieldNome, Priority: "oldest"}}},
		{"duplicate field", []Rule{
			{Field: FieldNome, Priority: PriorityNewest},
			{Field: FieldNome, Priority: PriorityMostComplete},
		}},
		{"keepBoth on unsupported field", []Rule{{Field: FieldEmpresa, Priority: PriorityNewest, KeepBoth: true}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRuleSet(tc.rules)
			if err == nil {
				t.Fatal("expected a configuration fault")
			}
			var appErr *apperr.Error
			if !errors.As(err, &appErr) || appErr.Kind != apperr.KindConfiguration {
				t.Fatalf("expected KindConfiguration, got %v", err)
			}
		})
	}
}

func TestDefaultRuleSetIsValid(t *testing.T) {
	rs := DefaultRuleSet()
	if len(rs.Rules()) != 10 {
		t.Fatalf("expected rules for all ten lead fields, got %d", len(rs.Rules()))
	}
}

func TestRuleSetRulesReturnsCopy(t *testing.T) {
	rs := DefaultRuleSet()
	rules := rs.Rules()
	rules[0].Priority = PriorityManual

	if rs.Rules()[0].Priority == PriorityManual {
		t.Fatal("mutating the returned slice must not affect the rule set")
	}
}

func TestLoadRuleSetDefaultsOnEmptyPath(t *testing.T) {
	rs, err := LoadRuleSet("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rs.Rules()) != len(DefaultRules()) {
		t.Fatal("empty path must yield the built-in table")
	}
}

func TestLoadRuleSetFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merge_rules.yaml")
	content := `rules:
  - field: nome
    priority: newest
  - field: telefone
    priority: most_complete
    keep_both: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	rs, err := LoadRuleSet(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rules := rs.Rules()
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if rules[0].Field != FieldNome || rules[0].Priority != PriorityNewest {
		t.Fatalf("unexpected first rule: %+v", rules[0])
	}
	if rules[1].Field != FieldTelefone || !rules[1].KeepBoth {
		t.Fatalf("unexpected second rule: %+v", rules[1])
	}
}

func TestLoadRuleSetRejectsInvalidYAMLTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merge_rules.yaml")
	content := `rules:
  - field: nome
    priority: melhor_palpite
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	if _, err := LoadRuleSet(path); err == nil {
		t.Fatal("expected a configuration fault for an unknown priority")
	}
}

func TestLoadRuleSetMissingFile(t *testing.T) {
	if _, err := LoadRuleSet(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing rules file")
	}
}
