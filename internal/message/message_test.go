package message

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sanspareilsmyn/measurelens/internal/stats"
)

func TestEncodeJSON(t *testing.T) {
	runAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := FromResult(stats.Result{Key: "A", Min: 10, Max: 20, Average: 15, Sum: 30, Count: 2}, "m.txt", runAt)

	data, err := EncodeJSON(msg)
	require.NoError(t, err)
	require.JSONEq(t, `{"key":"A","min":10,"max":20,"avg":15,"count":2,"source":"m.txt","run_at":"2024-01-02T03:04:05Z"}`, string(data))

	back, err := ParseJSON(data)
	require.NoError(t, err)
	require.Equal(t, msg, back)
}

func TestParseJSONErrors(t *testing.T) {
	_, err := ParseJSON([]byte(`{"key":`))
	require.ErrorIs(t, err, ErrJSONUnmarshalFailed)

	_, err = ParseJSON([]byte(`{"key":"A","median":3}`))
	require.ErrorIs(t, err, ErrJSONUnmarshalFailed)

	_, err = ParseJSON([]byte(`{"min":1}`))
	require.ErrorIs(t, err, ErrMissingKey)
}
