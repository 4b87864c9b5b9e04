package api

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	service "github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/app"
)

// HitsDependencies defines the interface for recording hits.
type HitsDependencies interface {
	PlayerHit(ctx context.Context, attackerID, defenderID int) (service.HitResult, error)
}

// HitsHandler handles hit submissions.
type HitsHandler struct {
	deps HitsDependencies
}

// NewHitsHandler creates a new hits handler.
func NewHitsHandler(deps HitsDependencies) *HitsHandler {
	return &HitsHandler{deps: deps}
}

type hitRequest struct {
	AttackerID int `json:"attacker_id"`
	DefenderID int `json:"defender_id"`
}

func (h hitRequest) validate() error {
	switch {
	case h.AttackerID < 1:
		return ErrMissingAttacker
	case h.DefenderID < 1:
		return ErrMissingDefender
	}
	return nil
}

type hitResponse struct {
	Damage          int     `json:"damage"`
	Score           float64 `json:"score"`
	EventID         string  `json:"event_id"`
	RelationalError string  `json:"relational_error,omitempty"`
}

// HandlePostHit handles POST /api/hits requests. A relational write failure
// is reported in the body of a 200 response.
func (h *HitsHandler) HandlePostHit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_hit"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrNotAllowed))
		return
	}

	var req hitRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.PlayerHit(r.Context(), req.AttackerID, req.DefenderID)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, hitResponse{
		Damage:          res.Damage,
		Score:           res.Score,
		EventID:         res.EventID.String(),
		RelationalError: errString(res.RelationalErr),
	})
}
