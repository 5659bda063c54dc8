package timeshift

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cast"

	"github.com/HerbHall/timeshift/pkg/clock"
)

type targetKind uint8

const (
	targetNone targetKind = iota
	targetMillis
	targetString
	targetInstant
)

// Target is the destination of JumpToTime: epoch milliseconds, a date
// string, or any value that reports epoch milliseconds. Build one with
// AtMillis, AtString, AtInstant or AtValue.
type Target struct {
	kind    targetKind
	millis  int64
	text    string
	instant clock.MilliTimer
}

// AtMillis targets ms milliseconds after the Unix epoch.
func AtMillis(ms int64) Target {
	return Target{kind: targetMillis, millis: ms}
}

// AtString targets the instant s parses to. Parsing follows
// clock.ParseMillis and happens when the jump is performed.
func AtString(s string) Target {
	return Target{kind: targetString, text: s}
}

// AtInstant targets i.UnixMilli(). time.Time and clock.Instant both
// qualify.
func AtInstant(i clock.MilliTimer) Target {
	return Target{kind: targetInstant, instant: i}
}

// AtValue picks the Target case from the dynamic type of v: strings
// become AtString, values with a UnixMilli method become AtInstant, and
// anything cast can read as an integer becomes AtMillis.
func AtValue(v any) (Target, error) {
	switch x := v.(type) {
	case Target:
		return x, nil
	case string:
		return AtString(x), nil
	case clock.MilliTimer:
		return AtInstant(x), nil
	case nil:
		return Target{}, errors.New("timeshift: nil jump target")
	}
	ms, err := cast.ToInt64E(v)
	if err != nil {
		return Target{}, fmt.Errorf("timeshift: unsupported jump target %T: %w", v, err)
	}
	return AtMillis(ms), nil
}

// Millis resolves t to epoch milliseconds.
func (t Target) Millis() (int64, error) {
	switch t.kind {
	case targetMillis:
		return t.millis, nil
	case targetString:
		return clock.ParseMillis(t.text)
	case targetInstant:
		if t.instant == nil {
			return 0, errors.New("timeshift: nil instant target")
		}
		return t.instant.UnixMilli(), nil
	default:
		return 0, errors.New("timeshift: empty jump target")
	}
}

// Time resolves t to a time.Time with millisecond precision.
func (t Target) Time() (time.Time, error) {
	ms, err := t.Millis()
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

func (t Target) String() string {
	switch t.kind {
	case targetMillis:
		return strconv.FormatInt(t.millis, 10)
	case targetString:
		return strconv.Quote(t.text)
	case targetInstant:
		if t.instant == nil {
			return "<nil>"
		}
		return clock.FromMillis(t.instant.UnixMilli()).ISOString()
	default:
		return "<none>"
	}
}
