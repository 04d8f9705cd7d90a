package record

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRecord = errors.New("malformed record")

	ErrMissingSeparator   = fmt.Errorf("%w: missing separator", ErrMalformedRecord)
	ErrInvalidMeasurement = fmt.Errorf("%w: measurement is not a decimal number", ErrMalformedRecord)
)
