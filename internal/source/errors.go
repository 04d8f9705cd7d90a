package source

import "errors"

var (
	// ErrIO marks every failure to open, inspect or map the input file.
	ErrIO             = errors.New("input unavailable")
	ErrNotRegularFile = errors.New("input is not a regular file")
	ErrTooLarge       = errors.New("input too large to map")
)
