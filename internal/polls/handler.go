package polls

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-awards/backend/internal/models"
	"github.com/campus-awards/backend/pkg/response"
)

// CreateRequest is the body for POST /polls.
type CreateRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	EndsAt      *time.Time `json:"ends_at"`
}

// UpdateRequest is the body for PATCH /polls/:id. Nil fields are left unchanged.
type UpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	EndsAt      *time.Time `json:"ends_at"`
}

// StatusRequest is the body for PATCH /polls/:id/status.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Handler handles poll HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a polls handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// closeExpired runs the lazy deadline transition before any poll read.
func (h *Handler) closeExpired(c *gin.Context) {
	n, err := h.repo.CloseExpired(c.Request.Context())
	if err != nil {
		h.logger.Warn("close expired polls", zap.Error(err))
		return
	}
	if n > 0 {
		h.logger.Info("polls auto-closed", zap.Int64("count", n))
	}
}

// List handles GET /polls: the dashboard read. Expired polls are closed
// before the list is returned.
func (h *Handler) List(c *gin.Context) {
	h.closeExpired(c)
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list polls")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /polls/:id.
func (h *Handler) GetByID(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}
	h.closeExpired(c)
	p, err := h.repo.GetByID(c.Request.Context(), pollID)
	if err != nil {
		response.NotFound(c, "poll not found")
		return
	}
	response.OK(c, p)
}

// Create handles POST /polls (admin).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	status := models.StatusNominationOpen
	if req.Status != "" {
		if !models.ValidPollStatus(req.Status) {
			response.BadRequest(c, "invalid poll status")
			return
		}
		status = models.PollStatus(req.Status)
	}
	p := &models.Poll{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		EndsAt:      req.EndsAt,
	}
	if err := h.repo.Create(c.Request.Context(), p); err != nil {
		response.Internal(c, "failed to create poll")
		return
	}
	response.Created(c, p)
}

// Update handles PATCH /polls/:id (admin).
func (h *Handler) Update(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p, err := h.repo.GetByID(c.Request.Context(), pollID)
	if err != nil {
		response.NotFound(c, "poll not found")
		return
	}
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Status != nil {
		if !models.ValidPollStatus(*req.Status) {
			response.BadRequest(c, "invalid poll status")
			return
		}
		p.Status = models.PollStatus(*req.Status)
	}
	if req.EndsAt != nil {
		p.EndsAt = req.EndsAt
	}
	if err := h.repo.Update(c.Request.Context(), p); err != nil {
		response.Internal(c, "failed to update poll")
		return
	}
	response.OK(c, p)
}

// UpdateStatus handles PATCH /polls/:id/status (admin). Any of the four
// statuses may be set; the label is not a one-way state machine.
func (h *Handler) UpdateStatus(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !models.ValidPollStatus(req.Status) {
		response.BadRequest(c, "invalid poll status")
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), pollID); err != nil {
		response.NotFound(c, "poll not found")
		return
	}
	if err := h.repo.UpdateStatus(c.Request.Context(), pollID, models.PollStatus(req.Status)); err != nil {
		response.Internal(c, "failed to update poll status")
		return
	}
	response.OK(c, gin.H{"id": pollID, "status": req.Status})
}
