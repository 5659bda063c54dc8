package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/HerbHall/timeshift/internal/control"
)

func sampleStatus() control.Status {
	now := time.Date(2020, 2, 2, 0, 0, 0, 0, time.UTC)
	return control.Status{
		Virtual:     true,
		OffsetMS:    3_600_000,
		OffsetNS:    int64(time.Hour),
		Offset:      "1h0m0s",
		Now:         now,
		NowMS:       now.UnixMilli(),
		MonotonicNS: 42,
	}
}

func TestPrintStatusText(t *testing.T) {
	var buf bytes.Buffer
	if err := printStatus(&buf, "text", sampleStatus()); err != nil {
		t.Fatalf("printStatus() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"clock:  virtual", "2020-02-02T00:00:00Z", "offset: 1h0m0s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintStatusJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printStatus(&buf, "json", sampleStatus()); err != nil {
		t.Fatalf("printStatus() error = %v", err)
	}
	var got control.Status
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.NowMS != 1580601600000 {
		t.Errorf("NowMS = %d, want 1580601600000", got.NowMS)
	}
}

func TestPrintStatusYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := printStatus(&buf, "yaml", sampleStatus()); err != nil {
		t.Fatalf("printStatus() error = %v", err)
	}
	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["virtual"] != true {
		t.Errorf("virtual = %v, want true", got["virtual"])
	}
	if got["offset"] != "1h0m0s" {
		t.Errorf("offset = %v, want 1h0m0s", got["offset"])
	}
}

func TestPrintStatusUnknownFormat(t *testing.T) {
	if err := printStatus(&bytes.Buffer{}, "xml", sampleStatus()); err == nil {
		t.Error("printStatus() error = nil, want error")
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("TIMESHIFT_TEST_ENV", "")
	if got := envOr("TIMESHIFT_TEST_ENV", "fallback"); got != "fallback" {
		t.Errorf("envOr() = %q, want fallback", got)
	}
	t.Setenv("TIMESHIFT_TEST_ENV", "set")
	if got := envOr("TIMESHIFT_TEST_ENV", "fallback"); got != "set" {
		t.Errorf("envOr() = %q, want set", got)
	}
}

func TestClientMintsTokenFromSecret(t *testing.T) {
	cf := &commonFlags{addr: defaultAddr, secret: "s"}
	if _, err := cf.client(); err != nil {
		t.Fatalf("client() error = %v", err)
	}
}
