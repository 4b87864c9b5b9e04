package widecolumn

import "errors"

// Sentinel kinds for wide-column store errors.
var (
	ErrConnect        = errors.New("connect to wide-column store")
	ErrBadConsistency = errors.New("unknown consistency level")
)
