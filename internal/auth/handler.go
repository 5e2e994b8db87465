package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-awards/backend/config"
	"github.com/campus-awards/backend/internal/gate"
	"github.com/campus-awards/backend/internal/models"
	"github.com/campus-awards/backend/internal/settings"
	"github.com/campus-awards/backend/pkg/queue"
	"github.com/campus-awards/backend/pkg/response"
)

// CheckEmailRequest is the body for POST /auth/check-email.
type CheckEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// RequestCodeRequest is the body for POST /auth/request-code (and for resends).
type RequestCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CallbackRequest is the body for POST /auth/callback: the one-time code exchange.
type CallbackRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo     *Repository
	jwt      *JWTService
	codes    *CodeStore
	settings *settings.Repository
	queue    *queue.Queue
	cfg      config.AuthConfig
	logger   *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, jwt *JWTService, codes *CodeStore, settingsRepo *settings.Repository, q *queue.Queue, cfg config.AuthConfig, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, jwt: jwt, codes: codes, settings: settingsRepo, queue: q, cfg: cfg, logger: logger}
}

// RoleForNewAccount resolves the role for a first sign-in. With a university
// domain configured, matching emails get the default role and everyone else
// becomes a viewer; otherwise the default role applies to all.
func RoleForNewAccount(cfg config.AuthConfig, email string) models.Role {
	role := models.Role(cfg.DefaultRole)
	if !models.ValidRole(cfg.DefaultRole) {
		role = models.RoleVoter
	}
	if cfg.UniversityDomain == "" {
		return role
	}
	if strings.HasSuffix(gate.NormalizeEmail(email), "@"+strings.ToLower(cfg.UniversityDomain)) {
		return role
	}
	return models.RoleViewer
}

// allowlistSettings loads the gate configuration; any read failure yields
// the zero value so the gate fails open.
func (h *Handler) allowlistSettings(c *gin.Context) gate.Settings {
	s, err := h.settings.AllowlistSettings(c.Request.Context())
	if err != nil {
		h.logger.Warn("allowlist settings unavailable, failing open", zap.Error(err))
		return gate.Settings{}
	}
	return s
}

// CheckEmail handles POST /auth/check-email. Response is the bare
// {allowed, message?} contract the login page consumes.
func (h *Handler) CheckEmail(c *gin.Context) {
	var req CheckEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gate.Result{Allowed: false, Message: "email is required"})
		return
	}
	c.JSON(http.StatusOK, gate.Check(h.allowlistSettings(c), req.Email))
}

// RequestCode handles POST /auth/request-code: gate-checks the email, issues
// a one-time code and queues its delivery. Also serves as "resend code".
func (h *Handler) RequestCode(c *gin.Context) {
	var req RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	email := gate.NormalizeEmail(req.Email)

	if res := gate.Check(h.allowlistSettings(c), email); !res.Allowed {
		response.Forbidden(c, res.Message)
		return
	}

	code, err := h.codes.Issue(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("issue sign-in code", zap.Error(err))
		response.Internal(c, "failed to issue sign-in code")
		return
	}

	err = h.queue.EnqueueEmail(c.Request.Context(), queue.EmailPayload{
		EmailType:      "signin_code",
		RecipientEmail: email,
		Subject:        "Your sign-in code",
		Body:           fmt.Sprintf("Your sign-in code is %s. It expires shortly; if you did not request it, ignore this email.", code),
	})
	if err != nil {
		h.logger.Error("enqueue sign-in email", zap.Error(err))
		response.Internal(c, "failed to send sign-in code")
		return
	}

	response.Accepted(c, gin.H{"sent": true})
}

// Callback handles POST /auth/callback: exchanges a one-time code for a
// session token, creating the account on first sign-in. An existing
// account keeps its role.
func (h *Handler) Callback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	email := gate.NormalizeEmail(req.Email)

	if err := h.codes.Verify(c.Request.Context(), email, req.Code); err != nil {
		if errors.Is(err, ErrCodeMismatch) {
			response.Unauthorized(c, "invalid or expired code")
			return
		}
		h.logger.Error("verify sign-in code", zap.Error(err))
		response.Internal(c, "failed to verify code")
		return
	}

	user, created, err := h.repo.GetOrCreate(c.Request.Context(), email, RoleForNewAccount(h.cfg, email))
	if err != nil {
		h.logger.Error("get or create account", zap.Error(err), zap.String("email", email))
		response.Internal(c, "failed to resolve account")
		return
	}
	if created {
		h.logger.Info("account created", zap.String("email", email), zap.String("role", string(user.Role)))
	}

	token, err := h.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.OK(c, TokenResponse{Token: token, User: *user})
}

// Me handles GET /me.
func (h *Handler) Me(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "account not found")
		return
	}
	response.OK(c, user)
}

// List handles GET /users (admin only).
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list users")
		return
	}
	response.OK(c, list)
}

// UpdateRoleRequest is the body for PATCH /users/:id/role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateRole handles PATCH /users/:id/role (admin only).
func (h *Handler) UpdateRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !models.ValidRole(req.Role) {
		response.BadRequest(c, "invalid role")
		return
	}
	if err := h.repo.UpdateRole(c.Request.Context(), userID, models.Role(req.Role)); err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.OK(c, gin.H{"id": userID, "role": req.Role})
}
