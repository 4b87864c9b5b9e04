package inspect

import "errors"

var (
	// ErrBadNumber reports input that should have been numeric.
	ErrBadNumber = errors.New("invalid number")
	// ErrEndOfInput reports that the reader ran dry mid-prompt.
	ErrEndOfInput = errors.New("end of input")
)
