// Package stats holds per-key running statistics, the maps that accumulate them and the
// projection of a final map into an ordered result.
package stats

// Statistics are the running min, max, sum and count of one key's measurements.
// A zero Count means nothing was observed and the other fields are meaningless.
type Statistics struct {
	Min   float64
	Max   float64
	Sum   float64
	Count int64
}

// Seed returns the statistics of a single observation.
func Seed(value float64) Statistics {
	return Statistics{Min: value, Max: value, Sum: value, Count: 1}
}

// Observe folds one measurement into s.
func (s *Statistics) Observe(value float64) {
	if s.Count == 0 {
		*s = Seed(value)
		return
	}
	s.Min = min(s.Min, value)
	s.Max = max(s.Max, value)
	s.Sum += value
	s.Count++
}

// Combine folds other into s. Sums are added in floating point, so the result of a chain of
// combines depends on its order in the last bits.
func (s *Statistics) Combine(other Statistics) {
	if other.Count == 0 {
		return
	}
	if s.Count == 0 {
		*s = other
		return
	}
	s.Min = min(s.Min, other.Min)
	s.Max = max(s.Max, other.Max)
	s.Sum += other.Sum
	s.Count += other.Count
}

// Average returns Sum/Count and false when nothing was observed.
func (s Statistics) Average() (float64, bool) {
	if s.Count == 0 {
		return 0, false
	}
	return s.Sum / float64(s.Count), true
}
