// Package clock defines the time source abstraction used by timeshift.
//
// A Provider answers two questions: what is the wall clock time, and
// what does the monotonic clock read. Real() answers them from the host.
// Virtual() answers them from an inner Provider plus an offset, so both
// readings move together when the offset changes.
//
// # Instants
//
// Instant wraps a time.Time and is built by New, which branches on its
// arguments:
//
//	clock.New(p)                         // p.Now(), shifted by any offset
//	clock.New(p, int64(1580601600000))   // exact epoch milliseconds
//	clock.New(p, "2020-02-02T00:00:00Z") // parsed, never shifted
//	clock.New(p, 2020, 2, 2)             // local calendar components, never shifted
//
// Only the zero-argument form consults the provider. Explicit values and
// the static helpers UTC and ParseMillis are pass-throughs to the host.
package clock
