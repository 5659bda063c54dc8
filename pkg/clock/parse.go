package clock

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// UTC returns epoch milliseconds for the given UTC calendar components.
// rest holds day, hour, minute, second and millisecond in that order;
// missing values default to day 1 and zero for the rest, extra values are
// ignored. The result never depends on any virtual offset.
func UTC(year int, month time.Month, rest ...int) int64 {
	c := [5]int{1, 0, 0, 0, 0}
	copy(c[:], rest)
	t := time.Date(year, month, c[0], c[1], c[2], c[3], c[4]*int(time.Millisecond), time.UTC)
	return t.UnixMilli()
}

// ParseMillis parses a date string to epoch milliseconds. RFC 3339 is
// tried first, then the wider set of layouts understood by
// cast.ToTimeE (RFC 1123, RFC 822, ANSIC, date-only ISO 8601 and more).
// Strings without a zone are read as UTC. The result never depends on
// any virtual offset.
func ParseMillis(s string) (int64, error) {
	t, err := parseTime(s)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("clock: parse: empty date string")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := cast.ToTimeE(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("clock: parse %q: %w", s, err)
	}
	return t, nil
}
