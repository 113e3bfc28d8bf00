// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"crm_portal_backend/internal/events"
	apphttp "crm_portal_backend/internal/http"
	"crm_portal_backend/internal/leads/dedup"
	"crm_portal_backend/internal/leads/handler"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/internal/leads/service"
	"crm_portal_backend/platform/config"
	"crm_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
	rules   dedup.RuleSet
}

// NewModule creates and initializes the leads module with all its dependencies.
// Loading an invalid merge rule table is a startup failure. A nil scanner
// disables on-demand duplicate scans.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, cfg config.MergeConfig, scanner service.DuplicateScanScheduler) (*Module, error) {
	rules, err := dedup.LoadRuleSet(cfg.GetMergeRulesPath())
	if err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	svc := service.New(repo, eventBus, rules, scanner)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repo: repo, rules: rules}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string { return "leads" }

// RegisterRoutes mounts the leads routes on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
}

// Service exposes the leads service for cross-module wiring.
func (m *Module) Service() *service.Service { return m.service }

// Repository exposes the leads repository for background workers.
func (m *Module) Repository() *repository.Repository { return m.repo }

// Rules exposes the validated merge rule table.
func (m *Module) Rules() dedup.RuleSet { return m.rules }
