//go:build linux || darwin || freebsd

package monotonic

import (
	"golang.org/x/sys/unix"
)

// readPlatform reads CLOCK_MONOTONIC. On the rare kernel error it falls
// back to the runtime's monotonic clock so callers always get a reading.
func readPlatform() (int64, int64) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return readRuntime()
	}
	return ts.Unix()
}
