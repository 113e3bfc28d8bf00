package domain

import (
	"time"

	"github.com/google/uuid"
)

// Qualificacao holds the structured BANT qualification detail captured by the
// scoring agent or by manual edits.
type Qualificacao struct {
	Budget    string `json:"budget,omitempty"`
	Authority string `json:"authority,omitempty"`
	Need      string `json:"need,omitempty"`
	Timeline  string `json:"timeline,omitempty"`
}

// IsEmpty reports whether no qualification detail has been captured.
func (q Qualificacao) IsEmpty() bool {
	return q.Budget == "" && q.Authority == "" && q.Need == "" && q.Timeline == ""
}

// Lead is a tracked sales contact. Leads are created on first contact,
// mutated by agent scoring and user edits, and archived (never hard-deleted)
// when merged away as duplicates.
type Lead struct {
	ID           uuid.UUID
	Nome         string
	Telefone     string
	Email        string
	Empresa      string
	Necessidade  string
	Estagio      string
	ScoreBant    int
	Qualificacao Qualificacao
	Proposta     string
	Origem       string
	// Alternates carry contact channels retained from merged-away duplicates.
	TelefonesAlternativos []string
	EmailsAlternativos    []string
	Metadata              map[string]string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	ArchivedAt            *time.Time
}

// IsArchived reports whether the lead has been merged away or retired.
func (l Lead) IsArchived() bool {
	return l.ArchivedAt != nil
}
