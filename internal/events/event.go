// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"crm_portal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCreated is published when a new lead enters the funnel.
type LeadCreated struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Nome   string    `json:"nome"`
	Origem string    `json:"origem"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadUpdated is published when lead contact or qualification data changes.
type LeadUpdated struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
}

func (e LeadUpdated) EventName() string { return "leads.lead.updated" }

// LeadStageChanged is published when a lead moves to another funnel stage.
type LeadStageChanged struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	EstagioAntigo string    `json:"estagioAntigo"`
	EstagioNovo   string    `json:"estagioNovo"`
}

func (e LeadStageChanged) EventName() string { return "leads.lead.stage_changed" }

// =============================================================================
// Deduplication Events
// =============================================================================

// DuplicateDetected is published when the classifier flags an existing lead
// as a likely duplicate of an incoming or scanned record.
type DuplicateDetected struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	DuplicateID uuid.UUID `json:"duplicateId"`
	MatchType   string    `json:"matchType"`
	Score       int       `json:"score"`
}

func (e DuplicateDetected) EventName() string { return "leads.duplicate.detected" }

// LeadsMerged is published after a merge has been committed. SurvivorID is the
// record that absorbed the merged fields; ArchivedID was soft-archived.
type LeadsMerged struct {
	BaseEvent
	SurvivorID uuid.UUID `json:"survivorId"`
	ArchivedID uuid.UUID `json:"archivedId"`
	Decisions  int       `json:"decisions"`
	Deferred   []string  `json:"deferred,omitempty"`
}

func (e LeadsMerged) EventName() string { return "leads.leads.merged" }

// MergeReviewRequired is published when a merge left manual-priority fields
// unresolved and a human has to pick the surviving values.
type MergeReviewRequired struct {
	BaseEvent
	SurvivorID uuid.UUID `json:"survivorId"`
	ArchivedID uuid.UUID `json:"archivedId"`
	Fields     []string  `json:"fields"`
}

func (e MergeReviewRequired) EventName() string { return "leads.merge.review_required" }
