package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/timeshift/internal/control"
	"github.com/HerbHall/timeshift/internal/event"
	"github.com/HerbHall/timeshift/internal/plugin"
	"github.com/HerbHall/timeshift/internal/server"
	"github.com/HerbHall/timeshift/internal/testutil"
	pkgplugin "github.com/HerbHall/timeshift/pkg/plugin"
)

type harness struct {
	journal *Plugin
	mux     *http.ServeMux
}

// newHarness wires control and journal onto one bus and one mux.
func newHarness(t *testing.T) *harness {
	t.Helper()
	testutil.RealClock(t)

	bus := event.NewBus(testutil.Logger())
	ctl := control.New(bus, nil)
	j := New(testutil.NewStore(t), bus)

	require.NoError(t, ctl.Init(viper.New(), testutil.Logger()))
	require.NoError(t, j.Init(viper.New(), testutil.Logger()))
	require.NoError(t, j.Start(context.Background()))
	t.Cleanup(func() { _ = j.Stop() })

	mux := http.NewServeMux()
	for _, r := range ctl.Routes() {
		mux.HandleFunc(r.Method+" /api/v1/control"+r.Path, r.Handler)
	}
	for _, r := range j.Routes() {
		mux.HandleFunc(r.Method+" /api/v1/journal"+r.Path, r.Handler)
	}
	return &harness{journal: j, mux: mux}
}

func (h *harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	h.mux.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func (h *harness) entries(t *testing.T, query string) []Entry {
	t.Helper()
	rec := h.do(t, http.MethodGet, "/api/v1/journal/entries"+query, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out []Entry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestJournalRecordsControlChanges(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/v1/control/shift", map[string]any{"duration": "1h"}).Code)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/v1/control/jump", map[string]any{"to": "2020-02-02T00:00:00Z"}).Code)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/v1/control/reset", nil).Code)

	got := h.entries(t, "")
	require.Len(t, got, 3)

	// Newest first.
	assert.Equal(t, control.TopicReset, got[0].Topic)
	assert.Equal(t, control.TopicJumped, got[1].Topic)
	assert.Equal(t, control.TopicShifted, got[2].Topic)

	assert.Equal(t, time.Hour, got[2].Offset)
	assert.True(t, got[2].Virtual)
	assert.False(t, got[0].Virtual)
	assert.Equal(t, time.Duration(0), got[0].Offset)

	jumped := time.Date(2020, 2, 2, 0, 0, 0, 0, time.UTC)
	assert.WithinDuration(t, jumped, got[1].VirtualAt, time.Second)
	assert.WithinDuration(t, time.Now(), got[1].RecordedAt, time.Minute)
	for _, e := range got {
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, "control", e.Source)
	}
}

func TestJournalIgnoresOtherTopics(t *testing.T) {
	h := newHarness(t)
	h.journal.handleEvent(context.Background(), pkgplugin.Event{ID: "x", Topic: "other.topic"})
	assert.Empty(t, h.entries(t, ""))
}

func TestJournalListLimit(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 5; i++ {
		h.do(t, http.MethodPost, "/api/v1/control/shift", map[string]any{"ms": 1000})
	}

	got := h.entries(t, "?limit=2")
	require.Len(t, got, 2)
	assert.Equal(t, 5*time.Second, got[0].Offset)
	assert.Equal(t, 4*time.Second, got[1].Offset)
}

func TestJournalListBadLimit(t *testing.T) {
	h := newHarness(t)
	for _, q := range []string{"?limit=0", "?limit=abc", "?limit=100000"} {
		rec := h.do(t, http.MethodGet, "/api/v1/journal/entries"+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestJournalClear(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodPost, "/api/v1/control/shift", map[string]any{"ms": 1})
	h.do(t, http.MethodPost, "/api/v1/control/shift", map[string]any{"ms": 1})

	rec := h.do(t, http.MethodDelete, "/api/v1/journal/entries", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]int64
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(2), body["removed"])
	assert.Empty(t, h.entries(t, ""))
}

func TestJournalHealth(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodPost, "/api/v1/control/reset", nil)

	hs := h.journal.Health(context.Background())
	assert.Equal(t, "ok", hs.Status)
	assert.Equal(t, "1", hs.Details["recorded"])
}

func TestJournalKeepsNanosecondOffsets(t *testing.T) {
	h := newHarness(t)
	want := 100*365*24*time.Hour + time.Nanosecond
	rec := h.do(t, http.MethodPost, "/api/v1/control/shift", map[string]any{"duration": want.String()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := h.entries(t, "")
	require.Len(t, got, 1)
	assert.Equal(t, want, got[0].Offset)
}

func TestFailedWriteDegradesDaemonHealth(t *testing.T) {
	testutil.RealClock(t)
	db := testutil.NewStore(t)
	j := New(db, nil)

	reg := plugin.NewRegistry(testutil.Logger())
	require.NoError(t, reg.Register(j))
	require.NoError(t, reg.InitAll(viper.New()))

	_, err := db.DB().Exec(`DROP TABLE journal_entries`)
	require.NoError(t, err)
	j.handleEvent(context.Background(), pkgplugin.Event{ID: "e1", Topic: control.TopicShifted, Source: "control"})

	srv := server.New("127.0.0.1:0", reg, nil, testutil.Logger())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string                            `json:"status"`
		Plugins map[string]pkgplugin.HealthStatus `json:"plugins"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "degraded", body.Plugins["journal"].Status)
	assert.Equal(t, "1", body.Plugins["journal"].Details["failures"])
	assert.Equal(t, "0", body.Plugins["journal"].Details["recorded"])
}

func TestJournalInitErrors(t *testing.T) {
	tests := []struct {
		name     string
		store    pkgplugin.Store
		settings map[string]any
	}{
		{"no store", nil, nil},
		{"zero limit", testutil.NewStore(t), map[string]any{"list_limit": 0}},
		{"limit too large", testutil.NewStore(t), map[string]any{"list_limit": maxListLimit + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := viper.New()
			for k, v := range tt.settings {
				cfg.Set(k, v)
			}
			if err := New(tt.store, nil).Init(cfg, testutil.Logger()); err == nil {
				t.Error("Init() error = nil, want error")
			}
		})
	}
}

func TestStartWithoutBus(t *testing.T) {
	j := New(testutil.NewStore(t), nil)
	require.NoError(t, j.Init(viper.New(), testutil.Logger()))
	require.NoError(t, j.Start(context.Background()))
	require.NoError(t, j.Stop())
}
