package clock

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// isoLayout matches the millisecond ISO 8601 form used for display.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// MilliTimer is anything that can report epoch milliseconds. time.Time
// and Instant both satisfy it.
type MilliTimer interface {
	UnixMilli() int64
}

// Instant is a point in time captured from a Provider or built from an
// explicit value. It never changes after construction: shifting the
// clock later does not move Instants already created.
type Instant struct {
	t time.Time
}

// FromTime wraps t.
func FromTime(t time.Time) Instant { return Instant{t: t} }

// FromMillis returns the Instant ms milliseconds after the Unix epoch.
func FromMillis(ms int64) Instant { return Instant{t: time.UnixMilli(ms)} }

// Parse parses s with the same rules as ParseMillis. The result is never
// shifted.
func Parse(s string) (Instant, error) {
	t, err := parseTime(s)
	if err != nil {
		return Instant{}, err
	}
	return Instant{t: t}, nil
}

// Date builds an Instant from local calendar components. Out-of-range
// components normalize the way time.Date does.
func Date(year int, month time.Month, day, hour, minute, sec, msec int) Instant {
	return Instant{t: time.Date(year, month, day, hour, minute, sec, msec*int(time.Millisecond), time.Local)}
}

// New builds an Instant, choosing the construction by argument count:
//
//   - no arguments: p.Now(), which carries any virtual offset
//   - one argument: an explicit value (Instant, time.Time, MilliTimer,
//     date string, or epoch milliseconds as any integer or float type)
//   - two to seven arguments: year, month, day, hour, minute, second,
//     millisecond in local time; missing trailing components default to
//     day 1 and zero for the rest
//
// Only the first form depends on p.
func New(p Provider, args ...any) (Instant, error) {
	switch n := len(args); {
	case n == 0:
		return Instant{t: p.Now()}, nil
	case n == 1:
		return fromValue(args[0])
	case n <= 7:
		return fromComponents(args)
	default:
		return Instant{}, fmt.Errorf("clock: too many arguments: got %d, want at most 7", n)
	}
}

func fromValue(v any) (Instant, error) {
	switch x := v.(type) {
	case Instant:
		return x, nil
	case time.Time:
		return FromTime(x), nil
	case string:
		return Parse(x)
	case MilliTimer:
		return FromMillis(x.UnixMilli()), nil
	}
	ms, err := cast.ToInt64E(v)
	if err != nil {
		return Instant{}, fmt.Errorf("clock: unsupported instant value %T: %w", v, err)
	}
	return FromMillis(ms), nil
}

func fromComponents(args []any) (Instant, error) {
	// year, month, day, hour, minute, second, millisecond
	c := [7]int{0, 1, 1, 0, 0, 0, 0}
	for i, a := range args {
		v, err := cast.ToIntE(a)
		if err != nil {
			return Instant{}, fmt.Errorf("clock: component %d: %w", i, err)
		}
		c[i] = v
	}
	return Date(c[0], time.Month(c[1]), c[2], c[3], c[4], c[5], c[6]), nil
}

// Time returns the wrapped time.Time.
func (i Instant) Time() time.Time { return i.t }

// UnixMilli returns milliseconds since the Unix epoch.
func (i Instant) UnixMilli() int64 { return i.t.UnixMilli() }

// UnixNano returns nanoseconds since the Unix epoch.
func (i Instant) UnixNano() int64 { return i.t.UnixNano() }

// Sub returns the duration i-u.
func (i Instant) Sub(u Instant) time.Duration { return i.t.Sub(u.t) }

// Equal reports whether i and u represent the same instant.
func (i Instant) Equal(u Instant) bool { return i.t.Equal(u.t) }

// ISOString formats i in UTC with millisecond precision, for example
// 2020-02-02T00:00:00.000Z.
func (i Instant) ISOString() string {
	return i.t.UTC().Format(isoLayout)
}

func (i Instant) String() string { return i.ISOString() }
