// Package timeshift virtualizes the process clock for deterministic tests.
//
// Code that reads time through Now, Monotonic, MonotonicNanos or the
// Provider returned by Clock observes a shared, shiftable view of both
// the wall clock and the monotonic clock. ShiftTimeBy moves that view
// by a relative amount, JumpToTime moves it to an absolute instant, and
// ResetTime puts the real clock back.
//
//	timeshift.ShiftTimeBy(time.Hour)
//	defer timeshift.ResetTime()
//	expired := cache.Expired(key) // cache reads timeshift.Now()
//
// The first shift or jump installs the virtual clock; there is no
// separate enable step. Installation swaps the wall and monotonic readers
// together as one value, so they are never out of step.
//
// The offset is process-wide. Concurrent callers share it and the last
// writer wins: tests that shift time must not run in parallel with tests
// that depend on real time.
package timeshift

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/timeshift/internal/offset"
	"github.com/HerbHall/timeshift/pkg/clock"
)

// binding is one of the two possible active time sources.
type binding struct {
	provider clock.Provider
	virtual  bool
}

var (
	host  = clock.Real()
	store = offset.New()

	realBinding    = &binding{provider: host}
	virtualBinding = &binding{provider: clock.Virtual(host, store), virtual: true}

	active atomic.Pointer[binding]
	logger atomic.Pointer[zap.Logger]
)

func init() {
	active.Store(realBinding)
	logger.Store(zap.NewNop())
}

// SetLogger routes debug logging of clock changes to l. A nil logger
// disables logging.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l.Named("timeshift"))
}

func log() *zap.Logger { return logger.Load() }

// install makes the virtual clock active. Calling it while the virtual
// clock is already active does nothing.
func install() {
	if active.CompareAndSwap(realBinding, virtualBinding) {
		log().Debug("virtual clock installed")
	}
}

// ShiftTimeBy moves virtual time by d, installing the virtual clock if
// needed. Shifts accumulate: ShiftTimeBy(a) then ShiftTimeBy(b) is the
// same as ShiftTimeBy(a+b).
func ShiftTimeBy(d time.Duration) {
	install()
	total := store.Add(d)
	log().Debug("time shifted",
		zap.Duration("delta", d),
		zap.Duration("offset", total),
	)
}

// ShiftTimeByMillis is ShiftTimeBy for a millisecond quantity, which may
// be fractional.
func ShiftTimeByMillis(ms float64) {
	ShiftTimeBy(offset.FromMillis(ms))
}

// JumpToTime sets virtual time so that Now returns target immediately
// afterwards, regardless of any earlier shift. It installs the virtual
// clock if needed. If target cannot be resolved the clock is left
// untouched and the resolution error is returned.
func JumpToTime(target Target) error {
	to, err := target.Time()
	if err != nil {
		return err
	}
	install()
	// Measured against the real clock: Time.Sub saturates near 292
	// years, and the virtual now may already sit that far from target.
	store.Set(to.Sub(host.Now()))
	log().Debug("time jumped",
		zap.Time("target", to),
		zap.Duration("offset", store.Get()),
	)
	return nil
}

// ResetTime reinstalls the real clock and zeroes the offset. When the
// real clock is already active it does nothing, so calling it twice is
// the same as calling it once.
func ResetTime() {
	if !active.CompareAndSwap(virtualBinding, realBinding) {
		return
	}
	store.Reset()
	log().Debug("real clock restored")
}

// Now returns the current time from the active clock.
func Now() time.Time { return Active().Now() }

// Since returns the time elapsed since t according to the active clock.
func Since(t time.Time) time.Duration { return Now().Sub(t) }

// Monotonic returns the active monotonic reading as a seconds and
// nanoseconds pair.
func Monotonic() clock.Reading { return Active().Monotonic() }

// MonotonicNanos returns the active monotonic reading in nanoseconds.
func MonotonicNanos() int64 { return Active().MonotonicNanos() }

// CurrentOffset returns the difference between virtual and real time.
func CurrentOffset() time.Duration { return store.Get() }

// CurrentOffsetMillis returns CurrentOffset in fractional milliseconds.
func CurrentOffsetMillis() float64 { return store.Millis() }

// IsVirtual reports whether the virtual clock is active.
func IsVirtual() bool { return active.Load().virtual }

// Active returns the Provider currently installed. The result is a
// snapshot: it does not follow later installs or restores. Use Clock for
// a Provider that always resolves through the current binding.
func Active() clock.Provider { return active.Load().provider }

// Clock returns a Provider that resolves every call through the active
// binding. Inject it into components that take a clock.Provider.
func Clock() clock.Provider { return globalClock{} }

type globalClock struct{}

func (globalClock) Now() time.Time           { return Now() }
func (globalClock) Monotonic() clock.Reading { return Monotonic() }
func (globalClock) MonotonicNanos() int64    { return MonotonicNanos() }

// NewInstant builds a clock.Instant against the active clock. See
// clock.New for how the arguments are interpreted; only the no-argument
// form is affected by the virtual offset.
func NewInstant(args ...any) (clock.Instant, error) {
	return clock.New(Clock(), args...)
}
