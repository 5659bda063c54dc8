//go:build !linux && !darwin && !freebsd

package monotonic

func readPlatform() (int64, int64) {
	return readRuntime()
}
