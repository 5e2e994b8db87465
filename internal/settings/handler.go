package settings

import (
	"github.com/gin-gonic/gin"

	"github.com/campus-awards/backend/internal/models"
	"github.com/campus-awards/backend/pkg/response"
)

// Keys admins may write through the API.
var writableKeys = map[string]struct{}{
	models.SettingAllowlistEnabled: {},
	models.SettingAllowlistRegex:   {},
	models.SettingAllowlistMessage: {},
}

// Handler handles admin settings endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a settings handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /settings (admin).
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list settings")
		return
	}
	response.OK(c, list)
}

// SetRequest is the body for PUT /settings.
type SetRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

// Set handles PUT /settings (admin).
func (h *Handler) Set(c *gin.Context) {
	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if _, ok := writableKeys[req.Key]; !ok {
		response.BadRequest(c, "unknown setting key")
		return
	}
	if err := h.repo.Set(c.Request.Context(), req.Key, req.Value); err != nil {
		response.Internal(c, "failed to update setting")
		return
	}
	response.OK(c, gin.H{"key": req.Key, "value": req.Value})
}
