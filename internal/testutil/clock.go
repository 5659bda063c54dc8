package testutil

import (
	"testing"
	"time"

	"github.com/HerbHall/timeshift/pkg/timeshift"
)

// RealClock restores the real clock now and again when the test ends.
// Tests that touch the process clock must not call t.Parallel.
func RealClock(t testing.TB) {
	t.Helper()
	timeshift.ResetTime()
	t.Cleanup(timeshift.ResetTime)
}

// Shift moves the process clock by d for the rest of the test.
func Shift(t testing.TB, d time.Duration) {
	t.Helper()
	RealClock(t)
	timeshift.ShiftTimeBy(d)
}

// Jump moves the process clock to target for the rest of the test.
// If no time is given, it defaults to a fixed point:
// 2025-01-01 00:00:00 UTC.
func Jump(t testing.TB, target ...time.Time) {
	t.Helper()
	to := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if len(target) > 0 {
		to = target[0]
	}
	RealClock(t)
	if err := timeshift.JumpToTime(timeshift.AtInstant(to)); err != nil {
		t.Fatalf("testutil.Jump: %v", err)
	}
}

// WithinJitter fails the test unless got is in [want, want+10ms).
func WithinJitter(t testing.TB, got, want time.Duration) {
	t.Helper()
	if got < want || got >= want+10*time.Millisecond {
		t.Errorf("duration = %v, want %v within 10ms", got, want)
	}
}
