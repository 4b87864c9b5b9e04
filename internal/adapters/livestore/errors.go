package livestore

import "errors"

// Sentinel kinds for live store errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
	ErrEmptyState   = errors.New("player state has no fields")
)
