package votes

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-awards/backend/internal/middleware"
	"github.com/campus-awards/backend/internal/models"
	"github.com/campus-awards/backend/internal/nominations"
	"github.com/campus-awards/backend/internal/polls"
	"github.com/campus-awards/backend/internal/realtime"
	"github.com/campus-awards/backend/pkg/response"
)

// CastRequest is the body for POST /polls/:id/votes.
type CastRequest struct {
	NominationID uuid.UUID `json:"nomination_id" binding:"required"`
}

// Handler handles vote HTTP endpoints.
type Handler struct {
	repo           *Repository
	pollRepo       *polls.Repository
	nominationRepo *nominations.Repository
	hub            *realtime.Hub
	allowAdminVote bool
	logger         *zap.Logger
}

// NewHandler creates a votes handler.
func NewHandler(repo *Repository, pollRepo *polls.Repository, nominationRepo *nominations.Repository, hub *realtime.Hub, allowAdminVote bool, logger *zap.Logger) *Handler {
	return &Handler{
		repo:           repo,
		pollRepo:       pollRepo,
		nominationRepo: nominationRepo,
		hub:            hub,
		allowAdminVote: allowAdminVote,
		logger:         logger,
	}
}

// Cast handles POST /polls/:id/votes. Checks run in order: poll open for
// voting, nomination valid for that poll and approved, caller allowed to
// vote, then the optimistic insert that the uniqueness constraint arbitrates.
func (h *Handler) Cast(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)

	var req CastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	p, err := h.pollRepo.GetByID(c.Request.Context(), pollID)
	if err != nil {
		response.NotFound(c, "poll not found")
		return
	}
	if !p.VotingOpenAt(time.Now()) {
		response.Conflict(c, "voting is not open for this poll")
		return
	}

	n, err := h.nominationRepo.GetByID(c.Request.Context(), req.NominationID)
	if err != nil || n.PollID != pollID || !n.Approved {
		response.BadRequest(c, "invalid nomination for this poll")
		return
	}

	if !models.CanVote(models.Role(role), h.allowAdminVote) {
		response.Forbidden(c, "only voters can cast votes")
		return
	}

	v := &models.Vote{PollID: pollID, NominationID: req.NominationID, UserID: userID}
	if err := h.repo.Insert(c.Request.Context(), v); err != nil {
		if errors.Is(err, ErrAlreadyVoted) {
			response.Conflict(c, "you have already voted in this poll")
			return
		}
		h.logger.Error("insert vote", zap.Error(err), zap.String("poll_id", pollID.String()))
		response.Internal(c, "failed to cast vote")
		return
	}

	h.hub.BroadcastToPollAndPublish(pollID, "vote_cast", map[string]interface{}{
		"vote_id":       v.ID,
		"poll_id":       v.PollID,
		"nomination_id": v.NominationID,
	})
	response.Created(c, v)
}

// HasVoted handles GET /polls/:id/votes/me.
func (h *Handler) HasVoted(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	voted, err := h.repo.HasVoted(c.Request.Context(), pollID, userID)
	if err != nil {
		response.Internal(c, "failed to check vote")
		return
	}
	response.OK(c, gin.H{"has_voted": voted})
}
