package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/festboard/internal/domain/standings"
	"github.com/okian/festboard/internal/domain/types"
)

// LeaderboardDependencies defines the interface for leaderboard operations
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, limit int) ([]standings.TeamStanding, types.Meta)
}

// LeaderboardHandler handles leaderboard requests
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

type leaderboardResponse struct {
	types.Meta
	Count int                      `json:"count"`
	Rows  []standings.TeamStanding `json:"rows"`
}

// HandleGetLeaderboard handles GET /leaderboard?limit=N requests. Without a
// limit every team is returned, up to the configured cap.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	n := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
	}
	rows, meta := h.deps.Leaderboard(r.Context(), n)
	if rows == nil {
		rows = []standings.TeamStanding{}
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Meta: meta, Count: len(rows), Rows: rows})
}
