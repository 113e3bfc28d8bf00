package transport

import (
	"time"

	"crm_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Request DTOs

type QualificacaoDTO struct {
	Budget    string `json:"budget,omitempty" validate:"max=500"`
	Authority string `json:"authority,omitempty" validate:"max=500"`
	Need      string `json:"need,omitempty" validate:"max=2000"`
	Timeline  string `json:"timeline,omitempty" validate:"max=500"`
}

type CreateLeadRequest struct {
	Nome         string            `json:"nome" validate:"required,min=1,max=200"`
	Telefone     string            `json:"telefone,omitempty" validate:"omitempty,min=5,max=30"`
	Email        string            `json:"email,omitempty" validate:"omitempty,email"`
	Empresa      string            `json:"empresa,omitempty" validate:"max=200"`
	Necessidade  string            `json:"necessidade,omitempty" validate:"max=4000"`
	Origem       string            `json:"origem,omitempty" validate:"max=100"`
	Metadata     map[string]string `json:"metadata,omitempty" validate:"-"`
	// Force skips the duplicate guard and creates the lead even when the
	// classifier found a match.
	Force bool `json:"force,omitempty"`
}

type UpdateLeadRequest struct {
	Nome         *string          `json:"nome,omitempty" validate:"omitempty,min=1,max=200"`
	Telefone     *string          `json:"telefone,omitempty" validate:"omitempty,min=5,max=30"`
	Email        *string          `json:"email,omitempty" validate:"omitempty,email"`
	Empresa      *string          `json:"empresa,omitempty" validate:"omitempty,max=200"`
	Necessidade  *string          `json:"necessidade,omitempty" validate:"omitempty,max=4000"`
	ScoreBant    *int             `json:"scoreBant,omitempty" validate:"omitempty,min=0,max=100"`
	Qualificacao *QualificacaoDTO `json:"qualificacao,omitempty"`
	Proposta     *string          `json:"proposta,omitempty" validate:"omitempty,max=8000"`
	Origem       *string          `json:"origem,omitempty" validate:"omitempty,max=100"`
}

type UpdateStageRequest struct {
	Estagio string `json:"estagio" validate:"required"`
}

type ListLeadsRequest struct {
	Search          string `form:"search" validate:"max=200"`
	Estagio         string `form:"estagio" validate:"max=50"`
	Origem          string `form:"origem" validate:"max=100"`
	IncludeArchived bool   `form:"includeArchived"`
	Page            int    `form:"page" validate:"omitempty,min=1"`
	PerPage         int    `form:"perPage" validate:"omitempty,min=1,max=200"`
}

type CheckDuplicateRequest struct {
	Nome     string `json:"nome,omitempty" validate:"max=200"`
	Telefone string `json:"telefone,omitempty" validate:"max=30"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

type MergeRequest struct {
	// DuplicateID is the lead to merge into the one addressed by the URL.
	DuplicateID uuid.UUID `json:"duplicateId" validate:"required"`
	// SurvivorID optionally forces which record survives. When absent the
	// most recently updated of the pair survives.
	SurvivorID *uuid.UUID `json:"survivorId,omitempty"`
}

type TriggerScanRequest struct {
	// BatchSize caps how many leads one scan task loads. Zero lets the
	// worker use its default.
	BatchSize int `json:"batchSize,omitempty" validate:"omitempty,min=1,max=10000"`
}

type ListDuplicatesRequest struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=500"`
}

// Response DTOs

type LeadResponse struct {
	ID                    uuid.UUID         `json:"id"`
	Nome                  string            `json:"nome"`
	Telefone              string            `json:"telefone,omitempty"`
	Email                 string            `json:"email,omitempty"`
	Empresa               string            `json:"empresa,omitempty"`
	Necessidade           string            `json:"necessidade,omitempty"`
	Estagio               string            `json:"estagio"`
	ScoreBant             int               `json:"scoreBant"`
	Qualificacao          *QualificacaoDTO  `json:"qualificacao,omitempty"`
	Proposta              string            `json:"proposta,omitempty"`
	Origem                string            `json:"origem,omitempty"`
	TelefonesAlternativos []string          `json:"telefonesAlternativos,omitempty"`
	EmailsAlternativos    []string          `json:"emailsAlternativos,omitempty"`
	Metadata              map[string]string `json:"metadata,omitempty"`
	CreatedAt             time.Time         `json:"createdAt"`
	UpdatedAt             time.Time         `json:"updatedAt"`
	ArchivedAt            *time.Time        `json:"archivedAt,omitempty"`
}

type LeadListResponse struct {
	Items   []LeadResponse `json:"items"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"perPage"`
}

type DuplicateMatchResponse struct {
	Match  bool          `json:"match"`
	Type   string        `json:"type"`
	Score  int           `json:"score"`
	LeadID *uuid.UUID    `json:"leadId,omitempty"`
	Lead   *LeadResponse `json:"lead,omitempty"`
}

type MergeDecisionResponse struct {
	Field    string `json:"field"`
	Chosen   string `json:"chosen"`
	Reason   string `json:"reason"`
	ValueA   string `json:"valueA"`
	ValueB   string `json:"valueB"`
	Deferred bool   `json:"deferred,omitempty"`
}

type MergePreviewResponse struct {
	SurvivorID uuid.UUID               `json:"survivorId"`
	ArchivedID uuid.UUID               `json:"archivedId"`
	Merged     LeadResponse            `json:"merged"`
	Decisions  []MergeDecisionResponse `json:"decisions"`
	Deferred   []string                `json:"deferred,omitempty"`
}

type MergeResponse struct {
	Survivor  LeadResponse            `json:"survivor"`
	Decisions []MergeDecisionResponse `json:"decisions"`
	Deferred  []string                `json:"deferred,omitempty"`
}

type MergeRecordResponse struct {
	ID         uuid.UUID               `json:"id"`
	SurvivorID uuid.UUID               `json:"survivorId"`
	ArchivedID uuid.UUID               `json:"archivedId"`
	MatchType  string                  `json:"matchType"`
	Score      int                     `json:"score"`
	Decisions  []MergeDecisionResponse `json:"decisions"`
	Deferred   []string                `json:"deferred,omitempty"`
	CreatedAt  time.Time               `json:"createdAt"`
}

type DuplicateCandidateResponse struct {
	ID          uuid.UUID `json:"id"`
	LeadID      uuid.UUID `json:"leadId"`
	DuplicateID uuid.UUID `json:"duplicateId"`
	MatchType   string    `json:"matchType"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ActivityResponse struct {
	ID        uuid.UUID      `json:"id"`
	Action    string         `json:"action"`
	Meta      map[string]any `json:"meta,omitempty"`
	ActorID   *uuid.UUID     `json:"actorId,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ToQualificacao converts the DTO into the domain value.
func (d QualificacaoDTO) ToQualificacao() domain.Qualificacao {
	return domain.Qualificacao{
		Budget:    d.Budget,
		Authority: d.Authority,
		Need:      d.Need,
		Timeline:  d.Timeline,
	}
}

// FromLead maps a domain lead onto the response shape.
func FromLead(lead domain.Lead) LeadResponse {
	resp := LeadResponse{
		ID:                    lead.ID,
		Nome:                  lead.Nome,
		Telefone:              lead.Telefone,
		Email:                 lead.Email,
		Empresa:               lead.Empresa,
		Necessidade:           lead.Necessidade,
		Estagio:               lead.Estagio,
		ScoreBant:             lead.ScoreBant,
		Proposta:              lead.Proposta,
		Origem:                lead.Origem,
		TelefonesAlternativos: lead.TelefonesAlternativos,
		EmailsAlternativos:    lead.EmailsAlternativos,
		Metadata:              lead.Metadata,
		CreatedAt:             lead.CreatedAt,
		UpdatedAt:             lead.UpdatedAt,
		ArchivedAt:            lead.ArchivedAt,
	}
	if !lead.Qualificacao.IsEmpty() {
		resp.Qualificacao = &QualificacaoDTO{
			Budget:    lead.Qualificacao.Budget,
			Authority: lead.Qualificacao.Authority,
			Need:      lead.Qualificacao.Need,
			Timeline:  lead.Qualificacao.Timeline,
		}
	}
	return resp
}
