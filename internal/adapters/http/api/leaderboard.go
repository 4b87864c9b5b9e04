package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/model"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, n int) ([]model.LeaderboardEntry, error)
	ArchiveLeaderboard(ctx context.Context) ([]model.LeaderboardArchive, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

type leaderboardEntry struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	Score    float64 `json:"score"`
}

type archiveRow struct {
	GameID       int       `json:"game_id"`
	SnapshotTime time.Time `json:"snapshot_time"`
	PlayerID     int       `json:"player_id"`
	Rank         int       `json:"rank"`
	Score        float64   `json:"score"`
}

// HandleGetLeaderboard handles GET /api/leaderboard?limit=N requests. A
// missing limit means the full top list.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrNotAllowed))
		return
	}
	n := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}

	entries, err := h.deps.Leaderboard(r.Context(), n)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	out := make([]leaderboardEntry, 0, len(entries))
	for i, e := range entries {
		out = append(out, leaderboardEntry{Rank: i + 1, PlayerID: e.PlayerID, Score: e.Score})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleArchive handles POST /api/leaderboard/archive requests.
func (h *LeaderboardHandler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	const op = "api.archive_leaderboard"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrNotAllowed))
		return
	}
	rows, err := h.deps.ArchiveLeaderboard(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	out := make([]archiveRow, 0, len(rows))
	for _, a := range rows {
		out = append(out, archiveRow(a))
	}
	writeJSON(w, http.StatusOK, out)
}
