package handler

import (
	"errors"
	"net/http"

	"crm_portal_backend/internal/leads/service"
	"crm_portal_backend/internal/leads/transport"
	"crm_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) CheckDuplicate(c *gin.Context) {
	var req transport.CheckDuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	match, err := h.svc.CheckDuplicate(c.Request.Context(), req)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	httpkit.OK(c, match)
}

// ListDuplicates returns pending scan hits for review, strongest match first.
func (h *Handler) ListDuplicates(c *gin.Context) {
	var req transport.ListDuplicatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	items, err := h.svc.ListDuplicateCandidates(c.Request.Context(), req.Limit)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	httpkit.OK(c, items)
}

// TriggerScan enqueues a duplicate scan over the active lead base.
func (h *Handler) TriggerScan(c *gin.Context) {
	req := transport.TriggerScanRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.TriggerDuplicateScan(c.Request.Context(), req.BatchSize); err != nil {
		if errors.Is(err, service.ErrScanUnavailable) {
			httpkit.Error(c, http.StatusServiceUnavailable, err.Error(), nil)
			return
		}
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	httpkit.JSON(c, http.StatusAccepted, gin.H{"status": "queued"})
}

func (h *Handler) PreviewMerge(c *gin.Context) {
	id, req, ok := h.bindMergeRequest(c)
	if !ok {
		return
	}

	preview, err := h.svc.PreviewMerge(c.Request.Context(), id, req)
	if err != nil {
		h.writeMergeError(c, err)
		return
	}

	httpkit.OK(c, preview)
}

func (h *Handler) Merge(c *gin.Context) {
	id, req, ok := h.bindMergeRequest(c)
	if !ok {
		return
	}

	var actorID *uuid.UUID
	if identity := httpkit.GetIdentity(c); identity.IsAuthenticated() {
		userID := identity.UserID()
		actorID = &userID
	}

	result, err := h.svc.Merge(c.Request.Context(), id, req, actorID)
	if err != nil {
		h.writeMergeError(c, err)
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) ListMerges(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	records, err := h.svc.ListMerges(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
			return
		}
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	httpkit.OK(c, records)
}

func (h *Handler) bindMergeRequest(c *gin.Context) (uuid.UUID, transport.MergeRequest, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, transport.MergeRequest{}, false
	}

	var req transport.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, transport.MergeRequest{}, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return uuid.Nil, transport.MergeRequest{}, false
	}

	return id, req, true
}

func (h *Handler) writeMergeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLeadNotFound):
		httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrSelfMerge), errors.Is(err, service.ErrArchivedLead):
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
	}
}
