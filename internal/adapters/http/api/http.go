// Package api declares the JSON contracts and route registration of the
// arena API.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/adapters/livestore"
	service "github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/app"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/model"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	PlayerHit(ctx context.Context, attackerID, defenderID int) (service.HitResult, error)
	Leaderboard(ctx context.Context, n int) ([]model.LeaderboardEntry, error)
	PlayerHistory(ctx context.Context, playerID int) service.PlayerPanels
	ArchiveLeaderboard(ctx context.Context) ([]model.LeaderboardArchive, error)
}

// Server wires HTTP routes for the arena API.
type Server struct {
	healthHandler      *HealthHandler
	leaderboardHandler *LeaderboardHandler
	hitsHandler        *HitsHandler
	playersHandler     *PlayersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		leaderboardHandler: NewLeaderboardHandler(deps, livestore.MaxTop),
		hitsHandler:        NewHitsHandler(deps),
		playersHandler:     NewPlayersHandler(deps),
	}
}

// Register attaches all API routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/api/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/api/leaderboard/archive", MetricsMiddleware(s.leaderboardHandler.HandleArchive, "leaderboard_archive"))
	mux.HandleFunc("/api/hits", MetricsMiddleware(s.hitsHandler.HandlePostHit, "hits"))
	mux.HandleFunc("/api/players/{id}/stats", MetricsMiddleware(s.playersHandler.HandleGetStats, "player_stats"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type statRow struct {
	PlayerID           int       `json:"player_id"`
	Timestamp          time.Time `json:"timestamp"`
	Kills              int       `json:"kills"`
	DamageDealt        int       `json:"damage_dealt"`
	PlaytimeSeconds    int       `json:"playtime_seconds"`
	ResourcesCollected int       `json:"resources_collected"`
}

func toStatRows(in []model.StatSnapshot) []statRow {
	out := make([]statRow, 0, len(in))
	for _, s := range in {
		out = append(out, statRow(s))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service failures onto status codes.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPlayer), errors.Is(err, livestore.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func parsePlayerID(s string) (int, bool) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
