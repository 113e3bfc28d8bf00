package service

import (
	"context"
	"errors"

	"crm_portal_backend/internal/events"
	"crm_portal_backend/internal/leads/dedup"
	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/internal/leads/transport"
	"crm_portal_backend/platform/phone"
	"crm_portal_backend/platform/sanitize"

	"github.com/google/uuid"
)

var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrDuplicateLead   = errors.New("a matching lead already exists")
	ErrUnknownStage    = errors.New("unknown funnel stage")
	ErrSelfMerge       = errors.New("a lead cannot be merged with itself")
	ErrArchivedLead    = errors.New("lead is archived")
	ErrScanUnavailable = errors.New("duplicate scan queue not configured")
)

// DuplicateScanScheduler enqueues background duplicate scans. A nil scheduler
// means no queue is configured and on-demand scans are rejected.
type DuplicateScanScheduler interface {
	EnqueueDedupScan(ctx context.Context, batchSize int) error
}

type Service struct {
	repo    repository.LeadsRepository
	bus     events.Bus
	rules   dedup.RuleSet
	scanner DuplicateScanScheduler
}

func New(repo repository.LeadsRepository, bus events.Bus, rules dedup.RuleSet, scanner DuplicateScanScheduler) *Service {
	return &Service{repo: repo, bus: bus, rules: rules, scanner: scanner}
}

// Create registers a new lead. Unless the request forces creation, the
// duplicate classifier runs first and a match aborts with ErrDuplicateLead.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	req.Nome = sanitize.Text(req.Nome)
	req.Empresa = sanitize.Text(req.Empresa)
	req.Necessidade = sanitize.Text(req.Necessidade)
	req.Telefone = phone.NormalizeE164(req.Telefone)

	if !req.Force {
		match, err := s.classify(ctx, dedup.Candidate{
			Nome:     req.Nome,
			Telefone: req.Telefone,
			Email:    req.Email,
		}, uuid.Nil)
		if err != nil {
			return transport.LeadResponse{}, err
		}
		if match.Type != dedup.MatchNone {
			return transport.LeadResponse{}, ErrDuplicateLead
		}
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		Nome:        req.Nome,
		Telefone:    req.Telefone,
		Email:       req.Email,
		Empresa:     req.Empresa,
		Necessidade: req.Necessidade,
		Estagio:     domain.StageNovo,
		Origem:      req.Origem,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Nome:      lead.Nome,
		Origem:    lead.Origem,
	})

	return transport.FromLead(lead), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, ErrLeadNotFound
		}
		return transport.LeadResponse{}, err
	}
	return transport.FromLead(lead), nil
}

func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	perPage := req.PerPage
	if perPage < 1 {
		perPage = 50
	}

	leads, total, err := s.repo.List(ctx, repository.ListParams{
		Search:          req.Search,
		Estagio:         req.Estagio,
		Origem:          req.Origem,
		IncludeArchived: req.IncludeArchived,
		Limit:           perPage,
		Offset:          (page - 1) * perPage,
	})
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, transport.FromLead(lead))
	}

	return transport.LeadListResponse{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	params := repository.UpdateLeadParams{
		Nome:        sanitize.TextPtr(req.Nome),
		Email:       req.Email,
		Empresa:     sanitize.TextPtr(req.Empresa),
		Necessidade: sanitize.TextPtr(req.Necessidade),
		ScoreBant:   req.ScoreBant,
		Proposta:    sanitize.TextPtr(req.Proposta),
		Origem:      req.Origem,
	}
	if req.Telefone != nil {
		normalized := phone.NormalizeE164(*req.Telefone)
		params.Telefone = &normalized
	}
	if req.Qualificacao != nil {
		q := req.Qualificacao.ToQualificacao()
		params.Qualificacao = &q
	}

	lead, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, ErrLeadNotFound
		}
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadUpdated{BaseEvent: events.NewBaseEvent(), LeadID: lead.ID})

	return transport.FromLead(lead), nil
}

// UpdateStage moves a lead to another funnel stage. Only stages from the
// configured pipeline ordering are accepted.
func (s *Service) UpdateStage(ctx context.Context, id uuid.UUID, estagio string) (transport.LeadResponse, error) {
	if !domain.IsKnownStage(estagio) {
		return transport.LeadResponse{}, ErrUnknownStage
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, ErrLeadNotFound
		}
		return transport.LeadResponse{}, err
	}
	if current.IsArchived() {
		return transport.LeadResponse{}, ErrArchivedLead
	}

	lead, err := s.repo.UpdateStage(ctx, id, estagio)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, ErrLeadNotFound
		}
		return transport.LeadResponse{}, err
	}

	if current.Estagio != estagio {
		s.bus.Publish(ctx, events.LeadStageChanged{
			BaseEvent:     events.NewBaseEvent(),
			LeadID:        lead.ID,
			EstagioAntigo: current.Estagio,
			EstagioNovo:   estagio,
		})
	}

	return transport.FromLead(lead), nil
}

func (s *Service) Archive(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Archive(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLeadNotFound
	}
	return err
}

func (s *Service) ListActivity(ctx context.Context, leadID uuid.UUID) ([]transport.ActivityResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	entries, err := s.repo.ListActivity(ctx, leadID)
	if err != nil {
		return nil, err
	}

	items := make([]transport.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, transport.ActivityResponse{
			ID:        entry.ID,
			Action:    entry.Action,
			Meta:      entry.Meta,
			ActorID:   entry.ActorID,
			CreatedAt: entry.CreatedAt,
		})
	}
	return items, nil
}

// classify runs the duplicate classifier against all active leads except the
// excluded one.
func (s *Service) classify(ctx context.Context, candidate dedup.Candidate, exclude uuid.UUID) (dedup.DuplicateMatch, error) {
	existing, err := s.repo.ListCandidates(ctx, exclude)
	if err != nil {
		return dedup.DuplicateMatch{}, err
	}
	return dedup.Classify(candidate, existing), nil
}
