// Package offset holds the signed delta between virtual and real time.
//
// The offset is kept in nanoseconds so fractional millisecond shifts
// survive untouched down to the nanosecond. A Store has no bounds and
// performs no validation: negative, zero and very large offsets are all
// accepted.
package offset

import (
	"math"
	"sync/atomic"
	"time"
)

// Store is a single process-wide offset. The zero value is ready to use
// and holds a zero offset.
type Store struct {
	ns atomic.Int64
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Get returns the current offset.
func (s *Store) Get() time.Duration {
	return time.Duration(s.ns.Load())
}

// Millis returns the current offset in (possibly fractional) milliseconds.
func (s *Store) Millis() float64 {
	return ToMillis(s.Get())
}

// Set replaces the offset unconditionally.
func (s *Store) Set(d time.Duration) {
	s.ns.Store(int64(d))
}

// SetMillis replaces the offset with ms milliseconds.
func (s *Store) SetMillis(ms float64) {
	s.Set(FromMillis(ms))
}

// Add adds d to the offset and returns the result. A sum outside the
// Duration range saturates rather than wrapping, matching FromMillis.
func (s *Store) Add(d time.Duration) time.Duration {
	for {
		old := s.ns.Load()
		sum := saturatingAdd(old, int64(d))
		if s.ns.CompareAndSwap(old, sum) {
			return time.Duration(sum)
		}
	}
}

func saturatingAdd(a, b int64) int64 {
	sum := a + b
	switch {
	case b > 0 && sum < a:
		return math.MaxInt64
	case b < 0 && sum > a:
		return math.MinInt64
	}
	return sum
}

// Reset zeroes the offset.
func (s *Store) Reset() {
	s.ns.Store(0)
}

// FromMillis converts a millisecond quantity to a Duration, rounding to
// the nearest nanosecond. Values outside the Duration range saturate.
// NaN converts to zero.
func FromMillis(ms float64) time.Duration {
	ns := math.Round(ms * float64(time.Millisecond))
	switch {
	case math.IsNaN(ns):
		return 0
	case ns >= math.MaxInt64:
		return time.Duration(math.MaxInt64)
	case ns <= math.MinInt64:
		return time.Duration(math.MinInt64)
	}
	return time.Duration(ns)
}

// ToMillis converts d to fractional milliseconds.
func ToMillis(d time.Duration) float64 {
	ms := d / time.Millisecond
	rem := d % time.Millisecond
	return float64(ms) + float64(rem)/float64(time.Millisecond)
}
