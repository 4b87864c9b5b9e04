// Package combat holds the fixed rules of a hit and the health bookkeeping of
// a two-player match.
package combat

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/model"
)

// Rules of a hit. Damage is a constant, not derived from the players.
const (
	HitDamagePercent = 5
	KillsPerHit      = 1
	FullHealth       = 100

	// EventTypeHit tags analytics events produced by a hit.
	EventTypeHit = "hit"
)

// Hit is one attack of attacker on defender.
type Hit struct {
	AttackerID int
	DefenderID int
	Damage     int
	Kills      int
}

// NewHit returns the hit for a pair of players. The ids do not influence the
// outcome.
func NewHit(attackerID, defenderID int) Hit {
	return Hit{
		AttackerID: attackerID,
		DefenderID: defenderID,
		Damage:     HitDamagePercent,
		Kills:      KillsPerHit,
	}
}

// Snapshot is the attacker's statistics row for this hit.
func (h Hit) Snapshot(at time.Time) model.StatSnapshot {
	return model.StatSnapshot{
		PlayerID:    h.AttackerID,
		Timestamp:   at,
		Kills:       h.Kills,
		DamageDealt: h.Damage,
	}
}

// Details returns the payload stored with the hit event.
func (h Hit) Details() model.HitDetails {
	return model.HitDetails{From: h.AttackerID, To: h.DefenderID, Damage: h.Damage}
}

// Event builds the analytics event for this hit.
func (h Hit) Event(id uuid.UUID, at time.Time, gameID int) (model.GameEvent, error) {
	details, err := json.Marshal(h.Details())
	if err != nil {
		return model.GameEvent{}, fmt.Errorf("%w: %w", ErrEncodeDetails, err)
	}
	return model.GameEvent{
		EventID:   id,
		EventType: EventTypeHit,
		EventTime: at,
		PlayerID:  h.AttackerID,
		GameID:    gameID,
		Details:   details,
	}, nil
}

// DecodeDetails parses the details of a hit event.
func DecodeDetails(raw []byte) (model.HitDetails, error) {
	var d model.HitDetails
	if err := json.Unmarshal(raw, &d); err != nil {
		return model.HitDetails{}, fmt.Errorf("decode hit details: %w", err)
	}
	return d, nil
}
