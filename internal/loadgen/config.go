// Package loadgen drives concurrent hits against a running arena server and
// checks the leaderboard it produces.
package loadgen

import "time"

// Config holds configuration for a load run.
type Config struct {
	BaseURL string        // Base URL of the arena server
	Hits    int           // Number of hits to submit
	Players int           // Player ids are drawn from 1..Players
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every failed request
}

// Hit is one attacker/defender pair.
type Hit struct {
	AttackerID int `json:"attacker_id"`
	DefenderID int `json:"defender_id"`
}

// HitResponse is the body returned by POST /api/hits.
type HitResponse struct {
	Damage          int     `json:"damage"`
	Score           float64 `json:"score"`
	EventID         string  `json:"event_id"`
	RelationalError string  `json:"relational_error,omitempty"`
}

// Entry is a leaderboard row.
type Entry struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	Score    float64 `json:"score"`
}

// Stats holds run statistics.
type Stats struct {
	HitsGenerated      int
	HitsSubmitted      int
	HitsSuccessful     int
	HitsFailed         int
	RelationalErrors   int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration

	// DamageByPlayer sums the damage acknowledged for each attacker.
	DamageByPlayer map[string]int
}
