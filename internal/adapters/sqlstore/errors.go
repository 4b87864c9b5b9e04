package sqlstore

import "errors"

// ErrUnknownDriver is returned by Open for drivers outside the supported set.
var ErrUnknownDriver = errors.New("unknown sql driver")
