package results

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/campus-awards/backend/internal/models"
	"github.com/campus-awards/backend/internal/nominations"
	"github.com/campus-awards/backend/internal/polls"
	"github.com/campus-awards/backend/internal/votes"
	"github.com/campus-awards/backend/pkg/response"
)

// PollResults is the payload for a poll's ranked results.
type PollResults struct {
	Poll        models.Poll              `json:"poll"`
	Nominations []votes.RankedNomination `json:"nominations"`
	TotalVotes  int                      `json:"total_votes"`
}

// Handler serves results, leaderboard and admin analytics.
type Handler struct {
	pool           *pgxpool.Pool
	pollRepo       *polls.Repository
	nominationRepo *nominations.Repository
	voteRepo       *votes.Repository
	logger         *zap.Logger
}

// NewHandler creates a results handler. The pool is used directly for the
// aggregate analytics counts.
func NewHandler(pool *pgxpool.Pool, pollRepo *polls.Repository, nominationRepo *nominations.Repository, voteRepo *votes.Repository, logger *zap.Logger) *Handler {
	return &Handler{pool: pool, pollRepo: pollRepo, nominationRepo: nominationRepo, voteRepo: voteRepo, logger: logger}
}

func (h *Handler) pollResults(c *gin.Context, p *models.Poll) (*PollResults, error) {
	noms, err := h.nominationRepo.ListApproved(c.Request.Context(), p.ID)
	if err != nil {
		return nil, err
	}
	counts, err := h.voteRepo.CountsByNomination(c.Request.Context(), p.ID)
	if err != nil {
		return nil, err
	}
	ranked := votes.Tally(noms, counts)
	return &PollResults{Poll: *p, Nominations: ranked, TotalVotes: votes.Total(ranked)}, nil
}

// GetByPoll handles GET /polls/:id/results: ranked approved nominations
// with counts and percentages. Expired polls close before results render.
func (h *Handler) GetByPoll(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}
	if _, err := h.pollRepo.CloseExpired(c.Request.Context()); err != nil {
		h.logger.Warn("close expired polls", zap.Error(err))
	}
	p, err := h.pollRepo.GetByID(c.Request.Context(), pollID)
	if err != nil {
		response.NotFound(c, "poll not found")
		return
	}
	res, err := h.pollResults(c, p)
	if err != nil {
		h.logger.Error("compute results", zap.Error(err), zap.String("poll_id", pollID.String()))
		response.Internal(c, "failed to compute results")
		return
	}
	response.OK(c, res)
}

// Leaderboard handles GET /leaderboard: every poll with its ranked results,
// newest poll first.
func (h *Handler) Leaderboard(c *gin.Context) {
	if _, err := h.pollRepo.CloseExpired(c.Request.Context()); err != nil {
		h.logger.Warn("close expired polls", zap.Error(err))
	}
	list, err := h.pollRepo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list polls")
		return
	}
	out := make([]PollResults, 0, len(list))
	for i := range list {
		res, err := h.pollResults(c, &list[i])
		if err != nil {
			h.logger.Error("compute results", zap.Error(err), zap.String("poll_id", list[i].ID.String()))
			response.Internal(c, "failed to compute results")
			return
		}
		out = append(out, *res)
	}
	response.OK(c, out)
}

// Overview is the admin analytics payload.
type Overview struct {
	TotalUsers          int            `json:"total_users"`
	TotalPolls          int            `json:"total_polls"`
	TotalNominations    int            `json:"total_nominations"`
	ApprovedNominations int            `json:"approved_nominations"`
	TotalVotes          int            `json:"total_votes"`
	VotesByPoll         map[string]int `json:"votes_by_poll"`
}

// Analytics handles GET /analytics (admin): platform-wide counts.
func (h *Handler) Analytics(c *gin.Context) {
	ctx := c.Request.Context()
	var o Overview
	if err := h.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&o.TotalUsers); err != nil {
		response.Internal(c, "failed to load analytics")
		return
	}
	if err := h.pool.QueryRow(ctx, `SELECT COUNT(*) FROM polls`).Scan(&o.TotalPolls); err != nil {
		response.Internal(c, "failed to load analytics")
		return
	}
	if err := h.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE approved) FROM nominations`).
		Scan(&o.TotalNominations, &o.ApprovedNominations); err != nil {
		response.Internal(c, "failed to load analytics")
		return
	}
	var err error
	if o.TotalVotes, err = h.voteRepo.CountAll(ctx); err != nil {
		response.Internal(c, "failed to load analytics")
		return
	}

	o.VotesByPoll = make(map[string]int)
	rows, err := h.pool.Query(ctx, `SELECT poll_id, COUNT(*) FROM votes GROUP BY poll_id`)
	if err != nil {
		response.Internal(c, "failed to load analytics")
		return
	}
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			response.Internal(c, "failed to load analytics")
			return
		}
		o.VotesByPoll[id.String()] = n
	}
	response.OK(c, o)
}
