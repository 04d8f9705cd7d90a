package record

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseValid(t *testing.T) {
	cases := []struct {
		line  string
		key   string
		value float64
	}{
		{"Hamburg;12.0", "Hamburg", 12.0},
		{"Bulawayo;-8.9", "Bulawayo", -8.9},
		{"Palembang;+38", "Palembang", 38},
		{"St. John's;.5", "St. John's", 0.5},
		{"Cracow;12.", "Cracow", 12},
		{"Abha;1e2", "Abha", 100},
		{";3.25", "", 3.25},
	}
	for _, tc := range cases {
		rec, err := Parse([]byte(tc.line), DefaultSeparator)
		require.NoError(t, err, tc.line)
		require.Equal(t, tc.key, rec.Key, tc.line)
		require.Equal(t, tc.value, rec.Measurement, tc.line)
	}
}

func TestParseMalformed(t *testing.T) {
	cases := []struct {
		line string
		err  error
	}{
		{"BAD", ErrMissingSeparator},
		{"", ErrMissingSeparator},
		{"A;", ErrInvalidMeasurement},
		{"A;abc", ErrInvalidMeasurement},
		{"A;NaN", ErrInvalidMeasurement},
		{"A;Inf", ErrInvalidMeasurement},
		{"A;0x1p-2", ErrInvalidMeasurement},
		{"A;1_000", ErrInvalidMeasurement},
		{"A;1e999", ErrInvalidMeasurement},
		{"A;1e", ErrInvalidMeasurement},
		{"A;.", ErrInvalidMeasurement},
		{"A;b;1.0", ErrInvalidMeasurement},
		{"A;1.0\r", ErrInvalidMeasurement},
	}
	for _, tc := range cases {
		_, err := Parse([]byte(tc.line), DefaultSeparator)
		require.ErrorIs(t, err, tc.err, tc.line)
		require.True(t, errors.Is(err, ErrMalformedRecord), tc.line)
	}
}

func TestParseCustomSeparator(t *testing.T) {
	rec, err := Parse([]byte("Oslo,3.5"), ',')
	require.NoError(t, err)
	require.Equal(t, "Oslo", rec.Key)
	require.Equal(t, 3.5, rec.Measurement)

	_, err = Parse([]byte("Oslo;3.5"), ',')
	require.ErrorIs(t, err, ErrMissingSeparator)
}

func TestParseIsIdempotent(t *testing.T) {
	line := []byte("Ouagadougou;29.4")
	first, err := Parse(line, DefaultSeparator)
	require.NoError(t, err)
	second, err := Parse(line, DefaultSeparator)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestParseBorrowsKey(t *testing.T) {
	line := []byte("Kyiv;1.0")
	rec, err := Parse(line, DefaultSeparator)
	require.NoError(t, err)
	line[0] = 'k'
	require.Equal(t, "kyiv", rec.Key)
}

func BenchmarkParse(b *testing.B) {
	line := []byte("Petropavlovsk-Kamchatsky;-12.3")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(line, DefaultSeparator); err != nil {
			b.Fatal(err)
		}
	}
}
