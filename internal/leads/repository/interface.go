package repository

import (
	"context"

	"crm_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	GetByPhoneDigits(ctx context.Context, digits string) (domain.Lead, error)
	GetByEmail(ctx context.Context, email string) (domain.Lead, error)
	List(ctx context.Context, params ListParams) ([]domain.Lead, int, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (domain.Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (domain.Lead, error)
	UpdateStage(ctx context.Context, id uuid.UUID, estagio string) (domain.Lead, error)
	Archive(ctx context.Context, id uuid.UUID) error
}

// CandidateLister feeds the duplicate classifier with active leads.
type CandidateLister interface {
	ListCandidates(ctx context.Context, excludeID uuid.UUID) ([]domain.Lead, error)
}

// MergeStore commits merges and exposes the merge audit trail.
type MergeStore interface {
	ApplyMerge(ctx context.Context, params ApplyMergeParams) (domain.Lead, error)
	ListMerges(ctx context.Context, leadID uuid.UUID) ([]MergeRecord, error)
}

// DuplicateCandidateStore tracks classifier hits awaiting human review.
type DuplicateCandidateStore interface {
	RecordDuplicateCandidate(ctx context.Context, leadID, duplicateID uuid.UUID, matchType string, score int) error
	ListDuplicateCandidates(ctx context.Context, limit int) ([]DuplicateCandidate, error)
	ResolveDuplicateCandidates(ctx context.Context, leadID, duplicateID uuid.UUID) error
}

// ActivityLogger records audit trail entries on leads.
type ActivityLogger interface {
	AddActivity(ctx context.Context, leadID uuid.UUID, actorID *uuid.UUID, action string, meta map[string]any) error
	ListActivity(ctx context.Context, leadID uuid.UUID) ([]Activity, error)
}

// =====================================
// Composite Interface
// =====================================

// LeadsRepository defines the complete interface for leads data operations.
// Composed of smaller, focused interfaces for better testability and flexibility.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	CandidateLister
	MergeStore
	DuplicateCandidateStore
	ActivityLogger
}

// Ensure Repository implements LeadsRepository
var _ LeadsRepository = (*Repository)(nil)
