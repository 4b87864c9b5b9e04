// Package web serves the browser dashboard: two fighters, their health bars
// and read-only panels of every store.
package web

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/adapters/http/api"
	service "github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/app"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/combat"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/pkg/logger"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/pkg/metrics"
)

// SessionCookie names the cookie that keys a browser's match.
const SessionCookie = "arena_session"

const (
	defaultP1 = 1
	defaultP2 = 2
)

// Dependencies required by the dashboard.
type Dependencies interface {
	PlayerHit(ctx context.Context, attackerID, defenderID int) (service.HitResult, error)
	Dashboard(ctx context.Context, playerIDs ...int) service.Dashboard
}

// Handler renders the dashboard and applies hits to per-session matches.
// Requests are handled one at a time.
type Handler struct {
	deps Dependencies
	log  logger.Logger

	secureCookie bool

	mu       sync.Mutex
	sessions map[string]*combat.Match
}

// NewHandler creates a dashboard handler.
func NewHandler(deps Dependencies, opts ...Option) *Handler {
	h := &Handler{
		deps:     deps,
		log:      logger.Nop(),
		sessions: make(map[string]*combat.Match),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register attaches the dashboard routes to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /{$}", api.MetricsMiddleware(h.HandleIndex, "index"))
	mux.HandleFunc("POST /hit", api.MetricsMiddleware(h.HandleHit, "hit"))
	mux.HandleFunc("POST /restart", api.MetricsMiddleware(h.HandleRestart, "restart"))
}

type pageData struct {
	P1, P2             int
	HealthP1, HealthP2 int
	GameOver           bool
	Winner             int
	Message            string
	MessageClass       string
	Dashboard          service.Dashboard
}

// HandleIndex handles GET / requests.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	match := h.session(w, r)
	p1, p2, err := playerIDs(r)
	if err != nil {
		h.render(w, r, http.StatusBadRequest, defaultP1, defaultP2, match, err.Error(), "error")
		return
	}
	h.render(w, r, http.StatusOK, p1, p2, match, "", "")
}

// HandleHit handles POST /hit requests with attacker=1|2.
func (h *Handler) HandleHit(w http.ResponseWriter, r *http.Request) {
	const op = "web.hit"
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	match := h.session(w, r)
	p1, p2, err := playerIDs(r)
	if err != nil {
		h.render(w, r, http.StatusBadRequest, defaultP1, defaultP2, match, err.Error(), "error")
		return
	}
	side, err := combat.ParseSide(r.FormValue("attacker"))
	if err != nil {
		h.render(w, r, http.StatusBadRequest, p1, p2, match, err.Error(), "error")
		return
	}
	if match.GameOver {
		h.render(w, r, http.StatusOK, p1, p2, match, "", "")
		return
	}

	attackerID, defenderID := p1, p2
	if side == combat.P2 {
		attackerID, defenderID = p2, p1
	}

	res, err := h.deps.PlayerHit(ctx, attackerID, defenderID)
	if err != nil {
		h.log.Error(ctx, "hit failed", logger.String("op", op), logger.Error(err))
		h.render(w, r, http.StatusInternalServerError, p1, p2, match, err.Error(), "error")
		return
	}

	finished, err := match.Strike(side, attackerID, res.Damage)
	if err != nil {
		h.render(w, r, http.StatusBadRequest, p1, p2, match, err.Error(), "error")
		return
	}
	if finished {
		metrics.RecordMatchFinished()
		h.log.Info(ctx, "match finished", logger.Int("winner", match.Winner))
	}

	msg, class := fmt.Sprintf("Player %d hit Player %d for %d damage.", attackerID, defenderID, res.Damage), "info"
	if res.RelationalErr != nil {
		msg, class = "SQL insert failed: "+res.RelationalErr.Error(), "error"
	}
	h.render(w, r, http.StatusOK, p1, p2, match, msg, class)
}

// HandleRestart handles POST /restart requests.
func (h *Handler) HandleRestart(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	match := h.session(w, r)
	match.Reset()
	p1, p2, err := playerIDs(r)
	if err != nil {
		p1, p2 = defaultP1, defaultP2
	}
	h.render(w, r, http.StatusOK, p1, p2, match, "", "")
}

// session returns the caller's match, starting a new session when the cookie
// is missing or unknown. Callers hold h.mu.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *combat.Match {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if m, ok := h.sessions[c.Value]; ok {
			return m
		}
	}
	id := uuid.NewString()
	m := combat.NewMatch()
	h.sessions[id] = m
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return m
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status, p1, p2 int, m *combat.Match, msg, class string) {
	data := pageData{
		P1:           p1,
		P2:           p2,
		HealthP1:     m.HealthP1,
		HealthP2:     m.HealthP2,
		GameOver:     m.GameOver,
		Winner:       m.Winner,
		Message:      msg,
		MessageClass: class,
		Dashboard:    h.deps.Dashboard(r.Context(), p1, p2),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.log.Error(r.Context(), "render failed", logger.Error(err))
		http.Error(w, fmt.Errorf("%w: %w", ErrRender, err).Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// playerIDs reads p1 and p2 from the query or form, defaulting to 1 and 2.
func playerIDs(r *http.Request) (int, int, error) {
	p1, err := formInt(r, "p1", defaultP1)
	if err != nil {
		return 0, 0, err
	}
	p2, err := formInt(r, "p2", defaultP2)
	if err != nil {
		return 0, 0, err
	}
	return p1, p2, nil
}

func formInt(r *http.Request, key string, def int) (int, error) {
	v := r.FormValue(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadPlayer, key, v)
	}
	return n, nil
}
