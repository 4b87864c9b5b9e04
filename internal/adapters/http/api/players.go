package api

import (
	"context"
	"fmt"
	"net/http"

	service "github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/app"
)

// PlayersDependencies defines the interface for player reads.
type PlayersDependencies interface {
	PlayerHistory(ctx context.Context, playerID int) service.PlayerPanels
}

// PlayersHandler handles per-player reads.
type PlayersHandler struct {
	deps PlayersDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayersDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

type statsPanel struct {
	Rows  []statRow `json:"rows"`
	Error string    `json:"error,omitempty"`
}

type playerStatsResponse struct {
	PlayerID   int        `json:"player_id"`
	WideColumn statsPanel `json:"wide_column"`
	Relational statsPanel `json:"relational"`
	Divergence string     `json:"divergence,omitempty"`
}

// HandleGetStats handles GET /api/players/{id}/stats requests. Store
// failures are reported per panel; the response is always 200.
func (h *PlayersHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player_stats"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrNotAllowed))
		return
	}
	id, ok := parsePlayerID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request",
			WrapKind(op, ErrBadRequest, fmt.Errorf("invalid player id %q", r.PathValue("id"))))
		return
	}

	p := h.deps.PlayerHistory(r.Context(), id)
	writeJSON(w, http.StatusOK, playerStatsResponse{
		PlayerID:   p.PlayerID,
		WideColumn: statsPanel{Rows: toStatRows(p.WideColumn.Rows), Error: errString(p.WideColumn.Err)},
		Relational: statsPanel{Rows: toStatRows(p.Relational.Rows), Error: errString(p.Relational.Err)},
		Divergence: errString(p.Divergence),
	})
}
