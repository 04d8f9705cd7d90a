package message

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeJSON marshals msg into a single JSON object without a trailing newline.
func EncodeJSON(msg ResultMessage) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJSONMarshalFailed, err)
	}
	return data, nil
}

// ParseJSON decodes one result message, rejecting unknown fields and a missing key.
func ParseJSON(data []byte) (ResultMessage, error) {
	var msg ResultMessage

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&msg); err != nil {
		return ResultMessage{}, fmt.Errorf("%w: %w", ErrJSONUnmarshalFailed, err)
	}
	if !bytes.Contains(data, []byte(`"key"`)) {
		return ResultMessage{}, ErrMissingKey
	}
	return msg, nil
}
