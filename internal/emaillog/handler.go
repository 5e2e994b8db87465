package emaillog

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campus-awards/backend/internal/models"
	"github.com/campus-awards/backend/pkg/response"
)

// Handler serves the admin email log view.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates an email log handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /email-logs (admin). Accepts an optional ?limit= param.
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	logs, err := h.repo.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list email logs", zap.Error(err))
		response.Internal(c, "failed to list email logs")
		return
	}
	if logs == nil {
		logs = []models.EmailLog{}
	}
	response.OK(c, logs)
}
