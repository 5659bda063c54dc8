package clock

import (
	"time"

	"github.com/HerbHall/timeshift/internal/monotonic"
)

// Real returns a Provider backed by the host clocks.
func Real() Provider { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Monotonic() Reading {
	sec, nsec := monotonic.Now()
	return Reading{Sec: sec, Nsec: nsec}
}

func (realClock) MonotonicNanos() int64 { return monotonic.Nanos() }
