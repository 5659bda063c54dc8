package monotonic

import "time"

// anchor pins the runtime fallback to process start. time.Since uses the
// monotonic reading embedded in anchor, so wall clock steps do not leak in.
var anchor = time.Now()

func readRuntime() (int64, int64) {
	elapsed := time.Since(anchor)
	return int64(elapsed / time.Second), int64(elapsed % time.Second)
}
