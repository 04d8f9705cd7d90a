package stats

import (
	"encoding/binary"
	"math"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Result is the final statistics of one key. Key is an owned copy.
type Result struct {
	Key     string
	Min     float64
	Max     float64
	Average float64
	Sum     float64
	Count   int64
}

// Project turns a final Aggregate into results sorted by byte-wise key order. Keys are
// copied, so the results stay valid after the input backing the Aggregate is released.
func Project(a *Aggregate) []Result {
	if a == nil {
		return []Result{}
	}
	results := make([]Result, 0, a.Len())
	a.Each(func(key string, s Statistics) {
		avg, ok := s.Average()
		if !ok {
			return
		}
		results = append(results, Result{
			Key:     strings.Clone(key),
			Min:     s.Min,
			Max:     s.Max,
			Average: avg,
			Sum:     s.Sum,
			Count:   s.Count,
		})
	})
	slices.SortFunc(results, func(x, y Result) int {
		return strings.Compare(x.Key, y.Key)
	})
	return results
}

// Fingerprint hashes an ordered result sequence. Equal sequences, bit for bit, have equal
// fingerprints.
func Fingerprint(results []Result) uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	}
	for _, r := range results {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(r.Key)))
		_, _ = d.Write(buf[:])
		_, _ = d.WriteString(r.Key)
		writeFloat(r.Min)
		writeFloat(r.Max)
		writeFloat(r.Sum)
		binary.LittleEndian.PutUint64(buf[:], uint64(r.Count))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
