package clock

import "time"

// OffsetSource supplies the current virtual offset. It is read on every
// call, never cached.
type OffsetSource interface {
	Get() time.Duration
}

// VirtualClock is a Provider that adds an offset to an inner Provider.
// Time keeps advancing at the inner clock's rate; the offset only moves
// the origin.
type VirtualClock struct {
	inner  Provider
	offset OffsetSource
}

// Compile-time interface check.
var _ Provider = (*VirtualClock)(nil)

// Virtual returns a VirtualClock over inner driven by offset.
func Virtual(inner Provider, offset OffsetSource) *VirtualClock {
	return &VirtualClock{inner: inner, offset: offset}
}

// Now returns inner now plus the offset.
func (c *VirtualClock) Now() time.Time {
	return c.inner.Now().Add(c.offset.Get())
}

// Monotonic returns the inner monotonic reading plus the offset,
// normalized so Nsec stays in [0, 1e9).
func (c *VirtualClock) Monotonic() Reading {
	return c.inner.Monotonic().Add(c.offset.Get())
}

// MonotonicNanos returns the inner nanosecond reading plus the offset in
// integer nanoseconds.
func (c *VirtualClock) MonotonicNanos() int64 {
	return c.inner.MonotonicNanos() + int64(c.offset.Get())
}

// Offset returns the offset currently applied.
func (c *VirtualClock) Offset() time.Duration {
	return c.offset.Get()
}
