package control

import (
	"time"

	"github.com/HerbHall/timeshift/internal/offset"
	"github.com/HerbHall/timeshift/pkg/timeshift"
)

// Event topics published on every applied clock change.
const (
	TopicShifted = "time.shifted"
	TopicJumped  = "time.jumped"
	TopicReset   = "time.reset"
)

// Status is the clock state reported by the status and watch routes and
// carried as the payload of control events.
type Status struct {
	Virtual     bool      `json:"virtual" yaml:"virtual"`
	OffsetMS    float64   `json:"offset_ms" yaml:"offset_ms"`
	OffsetNS    int64     `json:"offset_ns" yaml:"offset_ns"`
	Offset      string    `json:"offset" yaml:"offset"`
	Now         time.Time `json:"now" yaml:"now"`
	NowMS       int64     `json:"now_ms" yaml:"now_ms"`
	MonotonicNS int64     `json:"monotonic_ns" yaml:"monotonic_ns"`
}

// CurrentStatus snapshots the process clock.
func CurrentStatus() Status {
	off := timeshift.CurrentOffset()
	now := timeshift.Now()
	return Status{
		Virtual:     timeshift.IsVirtual(),
		OffsetMS:    offset.ToMillis(off),
		OffsetNS:    int64(off),
		Offset:      off.String(),
		Now:         now,
		NowMS:       now.UnixMilli(),
		MonotonicNS: timeshift.MonotonicNanos(),
	}
}

// ShiftRequest moves virtual time by MS milliseconds or by Duration (a
// Go duration string such as "1h30m"). Exactly one must be set.
type ShiftRequest struct {
	MS       any    `json:"ms,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// JumpRequest moves virtual time to To: epoch milliseconds as a number,
// or a date string.
type JumpRequest struct {
	To any `json:"to"`
}
