package message

import "errors"

var (
	ErrJSONMarshalFailed   = errors.New("failed to marshal result message")
	ErrJSONUnmarshalFailed = errors.New("failed to unmarshal result message")
	ErrMissingKey          = errors.New("result message has no key field")
)
