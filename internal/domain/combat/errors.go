package combat

import "errors"

// ErrInvalidSide is returned when a strike names a side other than P1 or P2.
var ErrInvalidSide = errors.New("invalid side")

// ErrEncodeDetails is returned when hit details cannot be encoded.
var ErrEncodeDetails = errors.New("encode hit details")
