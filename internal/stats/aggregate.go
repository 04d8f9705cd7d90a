package stats

import "github.com/dolthub/swiss"

const defaultCapacity = 1024

// Aggregate maps keys to their running statistics. Keys are stored as given; when they
// borrow memory from a mapped input the Aggregate must not outlive that input. An Aggregate
// is not safe for concurrent use and is meant to be owned by one worker at a time.
type Aggregate struct {
	m *swiss.Map[string, *Statistics]
}

// NewAggregate returns an empty Aggregate sized for about capacity keys.
func NewAggregate(capacity int) *Aggregate {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Aggregate{m: swiss.NewMap[string, *Statistics](uint32(capacity))}
}

// Observe records one measurement for key.
func (a *Aggregate) Observe(key string, value float64) {
	if s, ok := a.m.Get(key); ok {
		s.Observe(value)
		return
	}
	s := Seed(value)
	a.m.Put(key, &s)
}

// Get returns a copy of key's statistics.
func (a *Aggregate) Get(key string) (Statistics, bool) {
	s, ok := a.m.Get(key)
	if !ok {
		return Statistics{}, false
	}
	return *s, true
}

// Len returns the number of distinct keys.
func (a *Aggregate) Len() int { return a.m.Count() }

// Each calls fn for every key in unspecified order.
func (a *Aggregate) Each(fn func(key string, s Statistics)) {
	a.m.Iter(func(k string, v *Statistics) bool {
		fn(k, *v)
		return false
	})
}

// Merge returns the union of a and b. Keys present in both are combined, all others are
// carried over unchanged. Both inputs are consumed: the larger one is reused as the result
// and neither may be used by the caller afterwards. Either input may be nil.
func Merge(a, b *Aggregate) *Aggregate {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	if a.Len() < b.Len() {
		a, b = b, a
	}
	b.m.Iter(func(k string, v *Statistics) bool {
		if s, ok := a.m.Get(k); ok {
			s.Combine(*v)
		} else {
			a.m.Put(k, v)
		}
		return false
	})
	b.m.Clear()
	return a
}
