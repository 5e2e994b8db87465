package nominations

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-awards/backend/internal/middleware"
	"github.com/campus-awards/backend/internal/models"
	"github.com/campus-awards/backend/internal/polls"
	"github.com/campus-awards/backend/pkg/response"
	"github.com/campus-awards/backend/pkg/storage"
)

// CreateRequest is the body for POST /polls/:id/nominations.
type CreateRequest struct {
	NomineeName string `json:"nominee_name" binding:"required"`
	ImageURL    string `json:"image_url"`
}

// ApprovalRequest is the body for PATCH /nominations/:id/approval.
type ApprovalRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// Handler handles nomination HTTP endpoints.
type Handler struct {
	repo     *Repository
	pollRepo *polls.Repository
	s3       *storage.S3
	logger   *zap.Logger
}

// NewHandler creates a nominations handler. s3 may be nil when no bucket
// is configured; photo uploads then return 503-style errors.
func NewHandler(repo *Repository, pollRepo *polls.Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, pollRepo: pollRepo, s3: s3, logger: logger}
}

// Create handles POST /polls/:id/nominations. Any authenticated account may
// submit while the poll is NOMINATION_OPEN; the nomination starts unapproved.
func (h *Handler) Create(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	name := strings.TrimSpace(req.NomineeName)
	if name == "" {
		response.BadRequest(c, "nominee name is required")
		return
	}

	p, err := h.pollRepo.GetByID(c.Request.Context(), pollID)
	if err != nil {
		response.NotFound(c, "poll not found")
		return
	}
	if p.Status != models.StatusNominationOpen {
		response.Conflict(c, "nominations are closed for this poll")
		return
	}

	n := &models.Nomination{
		PollID:      pollID,
		NomineeName: name,
		ImageURL:    req.ImageURL,
		NominatedBy: userID,
	}
	if err := h.repo.Create(c.Request.Context(), n); err != nil {
		h.logger.Error("create nomination", zap.Error(err))
		response.Internal(c, "failed to create nomination")
		return
	}
	response.Created(c, n)
}

// UploadPhoto handles POST /polls/:id/nominations/photo: multipart nominee
// photo upload to the blob store, returning the public URL to reference in
// the nomination submit.
func (h *Handler) UploadPhoto(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}
	if h.s3 == nil {
		response.Internal(c, "photo storage is not configured")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > storage.MaxPhotoSize {
		response.BadRequest(c, "file too large (max 10MB)")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !storage.ValidatePhotoType(contentType, header.Filename) {
		response.BadRequest(c, "unsupported file type: images only")
		return
	}
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(header.Filename)
	}

	ext := strings.ToLower(path.Ext(header.Filename))
	key := storage.NominationKey(pollID.String(), fmt.Sprintf("%d%s", time.Now().UnixNano(), ext))

	url, err := h.s3.UploadPhoto(c.Request.Context(), key, contentType, file, header.Size)
	if err != nil {
		h.logger.Error("upload nominee photo", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to upload photo")
		return
	}
	response.Created(c, gin.H{"url": url})
}

// ListApproved handles GET /polls/:id/nominations: the voter-facing list.
func (h *Handler) ListApproved(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}
	list, err := h.repo.ListApproved(c.Request.Context(), pollID)
	if err != nil {
		response.Internal(c, "failed to list nominations")
		return
	}
	response.OK(c, list)
}

// ListAll handles GET /polls/:id/nominations/all (admin moderation view).
func (h *Handler) ListAll(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}
	list, err := h.repo.ListAll(c.Request.Context(), pollID)
	if err != nil {
		response.Internal(c, "failed to list nominations")
		return
	}
	response.OK(c, list)
}

// SetApproval handles PATCH /nominations/:id/approval (admin). Approving
// and un-approving are both always legal, repeatedly.
func (h *Handler) SetApproval(c *gin.Context) {
	nominationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid nomination id")
		return
	}
	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: approved is required")
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), nominationID); err != nil {
		response.NotFound(c, "nomination not found")
		return
	}
	if err := h.repo.SetApproval(c.Request.Context(), nominationID, *req.Approved); err != nil {
		response.Internal(c, "failed to update approval")
		return
	}
	response.OK(c, gin.H{"id": nominationID, "approved": *req.Approved})
}
