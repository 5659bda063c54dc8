package clock

import (
	"testing"
	"time"
)

func TestUTC(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		rest  []int
		want  int64
	}{
		{"month only", 2020, time.February, nil, 1580515200000},
		{"full", 2020, time.February, []int{2, 0, 0, 0, 0}, 1580601600000},
		{"millis", 2020, time.February, []int{2, 0, 0, 0, 123}, 1580601600123},
		{"month overflow", 2020, 13, nil, 1609459200000},
		{"extra ignored", 2020, time.February, []int{2, 0, 0, 0, 0, 99}, 1580601600000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UTC(tt.year, tt.month, tt.rest...); got != tt.want {
				t.Errorf("UTC() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseMillis(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"2020-02-02T00:00:00.000Z", 1580601600000},
		{"2020-02-02T00:00:00Z", 1580601600000},
		{"2020-02-02T01:00:00+01:00", 1580601600000},
		{"  2020-02-02T00:00:00.5Z  ", 1580601600500},
		{"Sat, 12 Sep 2020 17:09:02 GMT", 1599930542000},
		{"2020-02-02", 1580601600000},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMillis(tt.in)
			if err != nil {
				t.Fatalf("ParseMillis(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMillis(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseMillisInvalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "2020-13-45T99:00:00Z"} {
		if _, err := ParseMillis(in); err == nil {
			t.Errorf("ParseMillis(%q) error = nil, want error", in)
		}
	}
}
