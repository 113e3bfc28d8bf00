// Package webhook provides the webhook/form capture bounded context module.
// This file defines the module that encapsulates all webhook setup and route registration.
package webhook

import (
	apphttp "crm_portal_backend/internal/http"
	"crm_portal_backend/platform/logger"
	"crm_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the webhook bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	repo    *Repository
}

// NewModule creates and initializes the webhook module with all its dependencies.
func NewModule(pool *pgxpool.Pool, leads LeadGateway, activity ActivityRecorder, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(leads, activity, log)
	h := NewHandler(svc, repo, val)

	return &Module{handler: h, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts webhook routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public capture endpoint (API key auth, no JWT)
	capture := ctx.Public.Group("/webhook")
	capture.Use(APIKeyAuthMiddleware(m.repo))
	capture.POST("/forms", m.handler.HandleFormSubmission)

	// API key management (JWT auth)
	keys := ctx.Protected.Group("/webhook/keys")
	keys.POST("", m.handler.HandleCreateAPIKey)
	keys.GET("", m.handler.HandleListAPIKeys)
	keys.DELETE("/:keyId", m.handler.HandleRevokeAPIKey)
}
