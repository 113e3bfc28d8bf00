package handler

import (
	"net/http"

	"crm_portal_backend/internal/analytics/service"
	"crm_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/funnel", h.Funnel)
	rg.GET("/overview", h.Overview)
}

func (h *Handler) Funnel(c *gin.Context) {
	funnel, err := h.svc.Funnel(c.Request.Context())
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	httpkit.OK(c, funnel)
}

func (h *Handler) Overview(c *gin.Context) {
	overview, err := h.svc.Overview(c.Request.Context())
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	httpkit.OK(c, overview)
}
