// Package record parses single "<key><sep><measurement>" lines.
package record

import (
	"bytes"
	"math"
	"strconv"
	"unsafe"
)

// DefaultSeparator separates the key from the measurement.
const DefaultSeparator = ';'

// Record is one parsed line. Key shares memory with the line it was parsed from and is only
// valid while that memory is.
type Record struct {
	Key         string
	Measurement float64
}

// Parse splits line (without its terminator) at the first sep. An empty key is accepted.
func Parse(line []byte, sep byte) (Record, error) {
	i := bytes.IndexByte(line, sep)
	if i < 0 {
		return Record{}, ErrMissingSeparator
	}

	raw := line[i+1:]
	if !isDecimal(raw) {
		return Record{}, ErrInvalidMeasurement
	}
	value, err := strconv.ParseFloat(borrow(raw), 64)
	if err != nil || math.IsInf(value, 0) {
		return Record{}, ErrInvalidMeasurement
	}

	return Record{Key: borrow(line[:i]), Measurement: value}, nil
}

// borrow returns a string sharing b's memory.
func borrow(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// isDecimal accepts [+-]digits[.digits][(e|E)[+-]digits] with at least one mantissa digit.
// strconv alone would also take "NaN", "Inf", hex floats and underscores.
func isDecimal(b []byte) bool {
	i := 0
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(b) && isDigit(b[i]); i++ {
		digits++
	}
	if i < len(b) && b[i] == '.' {
		i++
		for ; i < len(b) && isDigit(b[i]); i++ {
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		i++
		if i < len(b) && (b[i] == '+' || b[i] == '-') {
			i++
		}
		start := i
		for ; i < len(b) && isDigit(b[i]); i++ {
		}
		if i == start {
			return false
		}
	}
	return i == len(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
