// Package model contains the records written to and read from the arena's
// three stores.
package model

import (
	"time"

	"github.com/google/uuid"
)

// StatSnapshot is one row of a player's statistics at a point in time. The
// same snapshot is appended independently to the wide-column and the
// relational store; the two copies share no identity.
type StatSnapshot struct {
	PlayerID           int       `json:"player_id"`
	Timestamp          time.Time `json:"timestamp"`
	Kills              int       `json:"kills"`
	DamageDealt        int       `json:"damage_dealt"`
	PlaytimeSeconds    int       `json:"playtime_seconds"`
	ResourcesCollected int       `json:"resources_collected"`
}

// GameEvent is an append-only analytics record. Details is an opaque JSON
// document whose shape depends on EventType.
type GameEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType string    `json:"event_type"`
	EventTime time.Time `json:"event_time"`
	PlayerID  int       `json:"player_id"`
	GameID    int       `json:"game_id"`
	Details   []byte    `json:"details"`
}

// HitDetails is the payload of a "hit" GameEvent.
type HitDetails struct {
	From   int `json:"from"`
	To     int `json:"to"`
	Damage int `json:"damage"`
}

// LeaderboardEntry is a player's accumulated score in one game.
type LeaderboardEntry struct {
	GameID   string  `json:"game_id"`
	PlayerID string  `json:"player_id"`
	Score    float64 `json:"score"`
}

// LeaderboardArchive is a ranked leaderboard row frozen at SnapshotTime.
type LeaderboardArchive struct {
	GameID       int       `json:"game_id"`
	SnapshotTime time.Time `json:"snapshot_time"`
	PlayerID     int       `json:"player_id"`
	Rank         int       `json:"rank"`
	Score        float64   `json:"score"`
}

// ChatMessage is a line posted to a game channel.
type ChatMessage struct {
	GameID    string `json:"game_id"`
	ChannelID string `json:"channel_id"`
	PlayerID  string `json:"player_id"`
	Text      string `json:"text"`
}

// PlayerState is a free-form set of fields; each field is last-write-wins.
type PlayerState struct {
	PlayerID string            `json:"player_id"`
	Fields   map[string]string `json:"fields"`
}

// GameObject is an object instance placed in a game.
type GameObject struct {
	ObjectID string `json:"object_id"`
	GameID   string `json:"game_id"`
	TypeID   string `json:"object_type_id"`
	Position string `json:"position"`
	Health   string `json:"current_health"`
	Status   string `json:"status"`
}
