package dedup

import (
	"strconv"
	"strings"

	"crm_portal_backend/internal/leads/domain"
)

// Field identifies a mergeable lead field. Every Field has a typed accessor
// below; a rule naming anything else fails RuleSet validation at startup.
type Field string

const (
	FieldNome         Field = "nome"
	FieldTelefone     Field = "telefone"
	FieldEmail        Field = "email"
	FieldEmpresa      Field = "empresa"
	FieldNecessidade  Field = "necessidade"
	FieldEstagio      Field = "estagio"
	FieldScoreBant    Field = "score_bant"
	FieldQualificacao Field = "qualificacao"
	FieldProposta     Field = "proposta"
	FieldOrigem       Field = "origem"
)

// fieldAccessor binds a Field to typed lead access. value produces the audit
// string form; assign copies the winning side's typed value into the sparse
// result; keepAlternate (keepBoth fields only) retains the losing value.
type fieldAccessor struct {
	value         func(domain.Lead) string
	isEmpty       func(domain.Lead) bool
	assign        func(*MergedLead, domain.Lead)
	keepAlternate func(*MergedLead, domain.Lead)
}

var fieldAccessors = map[Field]fieldAccessor{
	FieldNome: {
		value:   func(l domain.Lead) string { return l.Nome },
		isEmpty: func(l domain.Lead) bool { return strings.TrimSpace(l.Nome) == "" },
		assign:  func(m *MergedLead, l domain.Lead) { m.Nome = ptr(l.Nome) },
	},
	FieldTelefone: {
		value:   func(l domain.Lead) string { return l.Telefone },
		isEmpty: func(l domain.Lead) bool { return strings.TrimSpace(l.Telefone) == "" },
		assign:  func(m *MergedLead, l domain.Lead) { m.Telefone = ptr(l.Telefone) },
		keepAlternate: func(m *MergedLead, l domain.Lead) {
			m.TelefonesAlternativos = append(m.TelefonesAlternativos, l.Telefone)
		},
	},
	FieldEmail: {
		value:   func(l domain.Lead) string { return l.Email },
		isEmpty: func(l domain.Lead) bool { return strings.TrimSpace(l.Email) == "" },
		assign:  func(m *MergedLead, l domain.Lead) { m.Email = ptr(l.Email) },
		keepAlternate: func(m *MergedLead, l domain.Lead) {
			m.EmailsAlternativos = append(m.EmailsAlternativos, l.Email)
		},
	},
	FieldEmpresa: {
		value:   func(l domain.Lead) string { return l.Empresa },
		isEmpty: func(l domain.Lead) bool { return strings.TrimSpace(l.Empresa) == "" },
		assign:  func(m *MergedLead, l domain.Lead) { m.Empresa = ptr(l.Empresa) },
	},
	FieldNecessidade: {
		value:   func(l domain.Lead) string { return l.Necessidade },
		isEmpty: func(l domain.Lead) bool { return strings.TrimSpace(l.Necessidade) == "" },
		assign:  func(m *MergedLead, l domain.Lead) { m.Necessidade = ptr(l.Necessidade) },
	},
	FieldEstagio: {
		value:   func(l domain.Lead) string { return l.Estagio },
		isEmpty: func(l domain.Lead) bool { return strings.TrimSpace(l.Estagio) == "" },
		assign:  func(m *MergedLead, l domain.Lead) { m.Estagio = ptr(l.Estagio) },
	},
	FieldScoreBant: {
		value: func(l domain.Lead) string { return strconv.Itoa(l.ScoreBant) },
		// A zero score means the lead was never scored.
		isEmpty: func(l domain.Lead) bool { return l.ScoreBant == 0 },
		assign:  func(m *MergedLead, l domain.Lead) { m.ScoreBant = ptrInt(l.ScoreBant) },
	},
	FieldQualificacao: {
		value:   func(l domain.Lead) string { return qualificacaoString(l.Qualificacao) },
		isEmpty: func(l domain.Lead) bool { return l.Qualificacao.IsEmpty() },
		assign: func(m *MergedLead, l domain.Lead) {
			q := l.Qualificacao
			m.Qualificacao = &q
		},
	},
	FieldProposta: {
		value:   func(l domain.Lead) string { return l.Proposta },
		isEmpty: func(l domain.Lead) bool { return strings.TrimSpace(l.Proposta) == "" },
		assign:  func(m *MergedLead, l domain.Lead) { m.Proposta = ptr(l.Proposta) },
	},
	FieldOrigem: {
		value:   func(l domain.Lead) string { return l.Origem },
		isEmpty: func(l domain.Lead) bool { return strings.TrimSpace(l.Origem) == "" },
		assign:  func(m *MergedLead, l domain.Lead) { m.Origem = ptr(l.Origem) },
	},
}

func qualificacaoString(q domain.Qualificacao) string {
	parts := make([]string, 0, 4)
	if q.Budget != "" {
		parts = append(parts, "budget: "+q.Budget)
	}
	if q.Authority != "" {
		parts = append(parts, "authority: "+q.Authority)
	}
	if q.Need != "" {
		parts = append(parts, "need: "+q.Need)
	}
	if q.Timeline != "" {
		parts = append(parts, "timeline: "+q.Timeline)
	}
	return strings.Join(parts, "; ")
}

func ptr(s string) *string { return &s }

func ptrInt(i int) *int { return &i }
