package clock

import "time"

// Provider is a source of wall clock and monotonic clock readings.
// Implementations must derive both readings from the same state so a
// caller never observes one clock shifted and the other not.
type Provider interface {
	// Now returns the current wall clock time.
	Now() time.Time

	// Monotonic returns the current monotonic clock reading.
	Monotonic() Reading

	// MonotonicNanos returns the monotonic reading as a nanosecond count.
	MonotonicNanos() int64
}

// Reading is a monotonic clock value split into whole seconds and a
// nanosecond remainder. A normalized Reading has Nsec in [0, 1e9).
type Reading struct {
	Sec  int64
	Nsec int64
}

const nanosPerSecond = int64(time.Second)

// Nanos returns r as a single nanosecond count.
func (r Reading) Nanos() int64 {
	return r.Sec*nanosPerSecond + r.Nsec
}

// Add returns r shifted by d. The whole-second part of d is taken with
// floor division, so a negative d borrows from Sec and leaves a
// non-negative nanosecond remainder. The result is normalized.
func (r Reading) Add(d time.Duration) Reading {
	sec, nsec := SplitDuration(d)
	out := Reading{Sec: r.Sec + sec, Nsec: r.Nsec + nsec}
	if out.Nsec >= nanosPerSecond {
		out.Sec++
		out.Nsec %= nanosPerSecond
	}
	return out
}

// Sub returns the duration r-u.
func (r Reading) Sub(u Reading) time.Duration {
	return time.Duration((r.Sec-u.Sec)*nanosPerSecond + (r.Nsec - u.Nsec))
}

// SplitDuration splits d into whole seconds (rounded toward negative
// infinity) and a nanosecond remainder in [0, 1e9).
func SplitDuration(d time.Duration) (sec, nsec int64) {
	sec = int64(d / time.Second)
	nsec = int64(d % time.Second)
	if nsec < 0 {
		sec--
		nsec += nanosPerSecond
	}
	return sec, nsec
}
