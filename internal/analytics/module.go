// Package analytics provides funnel and overview metrics over the lead base.
package analytics

import (
	"crm_portal_backend/internal/analytics/handler"
	"crm_portal_backend/internal/analytics/repository"
	"crm_portal_backend/internal/analytics/service"
	apphttp "crm_portal_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the analytics bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	return &Module{handler: handler.New(svc)}
}

func (m *Module) Name() string { return "analytics" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/analytics"))
}
