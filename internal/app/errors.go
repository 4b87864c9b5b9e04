package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrInvalidPlayer   = errors.New("invalid player id")
	ErrDivergentCopies = errors.New("wide-column and relational copies diverge")
)
