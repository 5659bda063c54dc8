package control

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/timeshift/internal/server"
	"github.com/HerbHall/timeshift/pkg/timeshift"
)

const testSecret = "s3cret"

func TestMutationsRequireToken(t *testing.T) {
	h := newHarness(t, map[string]any{"auth_secret": testSecret})

	rec := h.do(t, http.MethodPost, "/shift", ShiftRequest{Duration: "1h"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, server.ProblemTypeUnauthorized, decodeProblem(t, rec).Type)
	assert.False(t, timeshift.IsVirtual())

	// Reads stay open.
	rec = h.do(t, http.MethodGet, "/status", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidTokenAccepted(t *testing.T) {
	h := newHarness(t, map[string]any{"auth_secret": testSecret})
	token, err := IssueToken([]byte(testSecret), "test", time.Minute)
	require.NoError(t, err)

	rec := h.do(t, http.MethodPost, "/shift", ShiftRequest{Duration: "1h"}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, time.Hour, timeshift.CurrentOffset())
}

func TestTokenValidatedAgainstRealClock(t *testing.T) {
	h := newHarness(t, map[string]any{"auth_secret": testSecret})
	token, err := IssueToken([]byte(testSecret), "test", time.Minute)
	require.NoError(t, err)

	// A shifted process must still accept a fresh token.
	timeshift.ShiftTimeBy(24 * time.Hour)
	rec := h.do(t, http.MethodPost, "/reset", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRejectedTokens(t *testing.T) {
	h := newHarness(t, map[string]any{"auth_secret": testSecret})
	wrong, err := IssueToken([]byte("other"), "test", time.Minute)
	require.NoError(t, err)
	expired, err := IssueToken([]byte(testSecret), "test", -time.Minute)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"wrong secret": "Bearer " + wrong,
		"expired":      "Bearer " + expired,
		"not bearer":   "Basic abc",
		"garbage":      "Bearer abc.def.ghi",
	} {
		rec := h.do(t, http.MethodPost, "/reset", nil, "Authorization", header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}

func TestIssueTokenEmptySecret(t *testing.T) {
	_, err := IssueToken(nil, "x", time.Minute)
	assert.Error(t, err)
}
