// Package monotonic reads the host's monotonic clock as a seconds and
// nanoseconds pair. The epoch is arbitrary; only differences between
// readings are meaningful.
package monotonic

// Now returns the current monotonic reading. nsec is always in [0, 1e9).
func Now() (sec, nsec int64) {
	return readPlatform()
}

// Nanos returns the current monotonic reading as a single nanosecond count.
func Nanos() int64 {
	sec, nsec := readPlatform()
	return sec*1e9 + nsec
}
