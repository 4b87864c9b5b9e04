package loadgen

import "errors"

var (
	// ErrInvalidConfig reports an unusable load configuration.
	ErrInvalidConfig = errors.New("invalid load config")
	// ErrUnexpectedStatus reports a non-success HTTP status.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrInconsistent reports a leaderboard that contradicts the submitted hits.
	ErrInconsistent = errors.New("leaderboard inconsistent")
)
