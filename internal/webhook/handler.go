package webhook

import (
	"errors"
	"net/http"
	"time"

	"crm_portal_backend/platform/httpkit"
	"crm_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc  *Service
	repo *Repository
	val  *validator.Validator
}

func NewHandler(svc *Service, repo *Repository, val *validator.Validator) *Handler {
	return &Handler{svc: svc, repo: repo, val: val}
}

// HandleFormSubmission accepts a flat JSON object of form fields. Field names
// are matched loosely so any capture form can post without adapter code.
func (h *Handler) HandleFormSubmission(c *gin.Context) {
	var data map[string]string
	if err := c.ShouldBindJSON(&data); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid form payload", nil)
		return
	}

	result, err := h.svc.ProcessSubmission(c.Request.Context(), data, "webhook:"+c.GetString("webhookKeyName"))
	if err != nil {
		if errors.Is(err, ErrIncompleteSubmission) {
			httpkit.Error(c, http.StatusUnprocessableEntity, err.Error(), nil)
			return
		}
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	status := http.StatusCreated
	if result.Status == "duplicate" {
		status = http.StatusOK
	}
	httpkit.JSON(c, status, result)
}

type createAPIKeyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type apiKeyResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	KeyPrefix string     `json:"keyPrefix"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
	// Key carries the plaintext key and is only set on creation.
	Key string `json:"key,omitempty"`
}

func (h *Handler) HandleCreateAPIKey(c *gin.Context) {
	var req createAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	plaintext, prefix, hash, err := GenerateAPIKey()
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	key, err := h.repo.Create(c.Request.Context(), req.Name, prefix, hash)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	httpkit.JSON(c, http.StatusCreated, apiKeyResponse{
		ID:        key.ID,
		Name:      key.Name,
		KeyPrefix: key.KeyPrefix,
		IsActive:  key.IsActive,
		CreatedAt: key.CreatedAt,
		Key:       plaintext,
	})
}

func (h *Handler) HandleListAPIKeys(c *gin.Context) {
	keys, err := h.repo.List(c.Request.Context())
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	items := make([]apiKeyResponse, 0, len(keys))
	for _, key := range keys {
		items = append(items, apiKeyResponse{
			ID:        key.ID,
			Name:      key.Name,
			KeyPrefix: key.KeyPrefix,
			IsActive:  key.IsActive,
			CreatedAt: key.CreatedAt,
			RevokedAt: key.RevokedAt,
		})
	}
	httpkit.OK(c, items)
}

func (h *Handler) HandleRevokeAPIKey(c *gin.Context) {
	id, err := uuid.Parse(c.Param("keyId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid key id", nil)
		return
	}

	if err := h.repo.Revoke(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrAPIKeyNotFound) {
			httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
			return
		}
		httpkit.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	c.Status(http.StatusNoContent)
}
