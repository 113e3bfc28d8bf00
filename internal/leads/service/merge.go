package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"crm_portal_backend/internal/events"
	"crm_portal_backend/internal/leads/dedup"
	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/internal/leads/transport"
	"crm_portal_backend/platform/phone"

	"github.com/google/uuid"
)

// CheckDuplicate classifies an incoming contact against all active leads
// without creating anything. The exact tiers hit the indexed phone and email
// columns directly; only the fuzzy name tier loads the candidate set.
func (s *Service) CheckDuplicate(ctx context.Context, req transport.CheckDuplicateRequest) (transport.DuplicateMatchResponse, error) {
	if digits := phone.Digits(phone.NormalizeE164(req.Telefone)); digits != "" {
		lead, err := s.repo.GetByPhoneDigits(ctx, digits)
		if err == nil {
			return toMatchResponse(dedup.DuplicateMatch{
				LeadID: lead.ID, Type: dedup.MatchPhoneExact, Score: dedup.ScorePhoneExact, Lead: lead,
			}), nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return transport.DuplicateMatchResponse{}, err
		}
	}

	if email := strings.TrimSpace(req.Email); email != "" {
		lead, err := s.repo.GetByEmail(ctx, email)
		if err == nil {
			return toMatchResponse(dedup.DuplicateMatch{
				LeadID: lead.ID, Type: dedup.MatchEmailExact, Score: dedup.ScoreEmailExact, Lead: lead,
			}), nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return transport.DuplicateMatchResponse{}, err
		}
	}

	match, err := s.classify(ctx, dedup.Candidate{Nome: req.Nome}, uuid.Nil)
	if err != nil {
		return transport.DuplicateMatchResponse{}, err
	}
	return toMatchResponse(match), nil
}

// ListDuplicateCandidates returns scan hits awaiting review, strongest first.
func (s *Service) ListDuplicateCandidates(ctx context.Context, limit int) ([]transport.DuplicateCandidateResponse, error) {
	candidates, err := s.repo.ListDuplicateCandidates(ctx, limit)
	if err != nil {
		return nil, err
	}

	items := make([]transport.DuplicateCandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, transport.DuplicateCandidateResponse{
			ID:          c.ID,
			LeadID:      c.LeadID,
			DuplicateID: c.DuplicateID,
			MatchType:   c.MatchType,
			Score:       c.Score,
			CreatedAt:   c.CreatedAt,
		})
	}
	return items, nil
}

// TriggerDuplicateScan enqueues a background scan over the active lead base.
func (s *Service) TriggerDuplicateScan(ctx context.Context, batchSize int) error {
	if s.scanner == nil {
		return ErrScanUnavailable
	}
	return s.scanner.EnqueueDedupScan(ctx, batchSize)
}

func toMatchResponse(match dedup.DuplicateMatch) transport.DuplicateMatchResponse {
	resp := transport.DuplicateMatchResponse{
		Match: match.Type != dedup.MatchNone,
		Type:  string(match.Type),
		Score: match.Score,
	}
	if resp.Match {
		id := match.LeadID
		resp.LeadID = &id
		lead := transport.FromLead(match.Lead)
		resp.Lead = &lead
	}
	return resp
}

// PreviewMerge resolves the merge of two leads without committing anything.
// The preview shows the survivor as it would look after the merge, plus the
// per-field decision trail.
func (s *Service) PreviewMerge(ctx context.Context, leadID uuid.UUID, req transport.MergeRequest) (transport.MergePreviewResponse, error) {
	survivor, duplicate, err := s.loadMergePair(ctx, leadID, req)
	if err != nil {
		return transport.MergePreviewResponse{}, err
	}

	result := dedup.Resolve(survivor, duplicate, s.rules)

	merged := overlayMerge(survivor, duplicate, result.Merged)
	return transport.MergePreviewResponse{
		SurvivorID: survivor.ID,
		ArchivedID: duplicate.ID,
		Merged:     transport.FromLead(merged),
		Decisions:  toDecisionResponses(result.Decisions),
		Deferred:   fieldsToStrings(result.Deferred),
	}, nil
}

// Merge commits a merge: the survivor absorbs the resolved fields, the
// duplicate is archived, and the decision trail is persisted. Manual-priority
// fields stay untouched on the survivor and trigger a review event.
func (s *Service) Merge(ctx context.Context, leadID uuid.UUID, req transport.MergeRequest, actorID *uuid.UUID) (transport.MergeResponse, error) {
	survivor, duplicate, err := s.loadMergePair(ctx, leadID, req)
	if err != nil {
		return transport.MergeResponse{}, err
	}

	result := dedup.Resolve(survivor, duplicate, s.rules)
	match := dedup.Classify(dedup.Candidate{
		Nome:     duplicate.Nome,
		Telefone: duplicate.Telefone,
		Email:    duplicate.Email,
	}, []domain.Lead{survivor})

	deferred := fieldsToStrings(result.Deferred)
	decisions := toDecisionResponses(result.Decisions)

	updated, err := s.repo.ApplyMerge(ctx, repository.ApplyMergeParams{
		SurvivorID: survivor.ID,
		ArchivedID: duplicate.ID,
		Updates:    buildMergeUpdates(survivor, duplicate, result.Merged),
		Decisions:  decisions,
		Deferred:   deferred,
		MatchType:  string(match.Type),
		Score:      match.Score,
		ActorID:    actorID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.MergeResponse{}, ErrLeadNotFound
		}
		return transport.MergeResponse{}, err
	}

	if err := s.repo.ResolveDuplicateCandidates(ctx, survivor.ID, duplicate.ID); err != nil {
		return transport.MergeResponse{}, err
	}

	_ = s.repo.AddActivity(ctx, survivor.ID, actorID, "lead_merged", map[string]any{
		"archivedId": duplicate.ID.String(),
		"matchType":  string(match.Type),
		"deferred":   deferred,
	})

	s.bus.Publish(ctx, events.LeadsMerged{
		BaseEvent:  events.NewBaseEvent(),
		SurvivorID: survivor.ID,
		ArchivedID: duplicate.ID,
		Decisions:  len(decisions),
		Deferred:   deferred,
	})
	if len(deferred) > 0 {
		s.bus.Publish(ctx, events.MergeReviewRequired{
			BaseEvent:  events.NewBaseEvent(),
			SurvivorID: survivor.ID,
			ArchivedID: duplicate.ID,
			Fields:     deferred,
		})
	}

	return transport.MergeResponse{
		Survivor:  transport.FromLead(updated),
		Decisions: decisions,
		Deferred:  deferred,
	}, nil
}

// ListMerges returns the committed merge history involving a lead.
func (s *Service) ListMerges(ctx context.Context, leadID uuid.UUID) ([]transport.MergeRecordResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	records, err := s.repo.ListMerges(ctx, leadID)
	if err != nil {
		return nil, err
	}

	items := make([]transport.MergeRecordResponse, 0, len(records))
	for _, rec := range records {
		item := transport.MergeRecordResponse{
			ID:         rec.ID,
			SurvivorID: rec.SurvivorID,
			ArchivedID: rec.ArchivedID,
			MatchType:  rec.MatchType,
			Score:      rec.Score,
			Deferred:   rec.Deferred,
			CreatedAt:  rec.CreatedAt,
		}
		if len(rec.Decisions) > 0 {
			// Decisions were stored by this service; a decode failure
			// means the row predates the current schema.
			_ = json.Unmarshal(rec.Decisions, &item.Decisions)
		}
		items = append(items, item)
	}
	return items, nil
}

// loadMergePair fetches and validates both sides of a merge, then picks the
// survivor: the forced one when requested, otherwise the most recently
// updated of the pair.
func (s *Service) loadMergePair(ctx context.Context, leadID uuid.UUID, req transport.MergeRequest) (survivor, duplicate domain.Lead, err error) {
	if leadID == req.DuplicateID {
		return domain.Lead{}, domain.Lead{}, ErrSelfMerge
	}

	a, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Lead{}, domain.Lead{}, ErrLeadNotFound
		}
		return domain.Lead{}, domain.Lead{}, err
	}
	b, err := s.repo.GetByID(ctx, req.DuplicateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Lead{}, domain.Lead{}, ErrLeadNotFound
		}
		return domain.Lead{}, domain.Lead{}, err
	}
	if a.IsArchived() || b.IsArchived() {
		return domain.Lead{}, domain.Lead{}, ErrArchivedLead
	}

	survivor, duplicate = a, b
	if req.SurvivorID != nil {
		switch *req.SurvivorID {
		case a.ID:
		case b.ID:
			survivor, duplicate = b, a
		default:
			return domain.Lead{}, domain.Lead{}, ErrLeadNotFound
		}
	} else if b.UpdatedAt.After(a.UpdatedAt) {
		survivor, duplicate = b, a
	}

	return survivor, duplicate, nil
}

// buildMergeUpdates converts the sparse merge result into column updates.
// Alternates become the union of both sides' existing lists plus the values
// retained by keepBoth rules, minus the winning primary.
func buildMergeUpdates(survivor, duplicate domain.Lead, merged dedup.MergedLead) repository.MergeFieldUpdates {
	updates := repository.MergeFieldUpdates{
		Nome:         merged.Nome,
		Telefone:     merged.Telefone,
		Email:        merged.Email,
		Empresa:      merged.Empresa,
		Necessidade:  merged.Necessidade,
		Estagio:      merged.Estagio,
		ScoreBant:    merged.ScoreBant,
		Qualificacao: merged.Qualificacao,
		Proposta:     merged.Proposta,
		Origem:       merged.Origem,
	}

	primaryPhone := survivor.Telefone
	if merged.Telefone != nil {
		primaryPhone = *merged.Telefone
	}
	updates.TelefonesAlternativos = unionExcluding(primaryPhone,
		survivor.TelefonesAlternativos, duplicate.TelefonesAlternativos, merged.TelefonesAlternativos)

	primaryEmail := survivor.Email
	if merged.Email != nil {
		primaryEmail = *merged.Email
	}
	updates.EmailsAlternativos = unionExcluding(primaryEmail,
		survivor.EmailsAlternativos, duplicate.EmailsAlternativos, merged.EmailsAlternativos)

	return updates
}

// overlayMerge applies the sparse merge result on top of the survivor for
// preview purposes.
func overlayMerge(survivor, duplicate domain.Lead, merged dedup.MergedLead) domain.Lead {
	out := survivor
	if merged.Nome != nil {
		out.Nome = *merged.Nome
	}
	if merged.Telefone != nil {
		out.Telefone = *merged.Telefone
	}
	if merged.Email != nil {
		out.Email = *merged.Email
	}
	if merged.Empresa != nil {
		out.Empresa = *merged.Empresa
	}
	if merged.Necessidade != nil {
		out.Necessidade = *merged.Necessidade
	}
	if merged.Estagio != nil {
		out.Estagio = *merged.Estagio
	}
	if merged.ScoreBant != nil {
		out.ScoreBant = *merged.ScoreBant
	}
	if merged.Qualificacao != nil {
		out.Qualificacao = *merged.Qualificacao
	}
	if merged.Proposta != nil {
		out.Proposta = *merged.Proposta
	}
	if merged.Origem != nil {
		out.Origem = *merged.Origem
	}
	out.TelefonesAlternativos = unionExcluding(out.Telefone,
		survivor.TelefonesAlternativos, duplicate.TelefonesAlternativos, merged.TelefonesAlternativos)
	out.EmailsAlternativos = unionExcluding(out.Email,
		survivor.EmailsAlternativos, duplicate.EmailsAlternativos, merged.EmailsAlternativos)
	return out
}

func unionExcluding(primary string, lists ...[]string) []string {
	seen := map[string]struct{}{}
	if primary != "" {
		seen[primary] = struct{}{}
	}
	out := make([]string, 0)
	for _, list := range lists {
		for _, v := range list {
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func toDecisionResponses(decisions []dedup.MergeDecision) []transport.MergeDecisionResponse {
	out := make([]transport.MergeDecisionResponse, 0, len(decisions))
	for _, d := range decisions {
		out = append(out, transport.MergeDecisionResponse{
			Field:    string(d.Field),
			Chosen:   string(d.Chosen),
			Reason:   d.Reason,
			ValueA:   d.ValueA,
			ValueB:   d.ValueB,
			Deferred: d.Deferred,
		})
	}
	return out
}

func fieldsToStrings(fields []dedup.Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, string(f))
	}
	return out
}
