package web

import "errors"

// Sentinel kinds for dashboard errors.
var (
	ErrBadPlayer = errors.New("player ids must be positive integers")
	ErrRender    = errors.New("render dashboard")
)
