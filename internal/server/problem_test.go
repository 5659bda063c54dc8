package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProblemHelpers(t *testing.T) {
	tests := []struct {
		name      string
		write     func(http.ResponseWriter, string, string)
		status    int
		typ       string
		title     string
		challenge bool
	}{
		{"bad request", BadRequest, http.StatusBadRequest, ProblemTypeBadRequest, "Bad Request", false},
		{"unauthorized", Unauthorized, http.StatusUnauthorized, ProblemTypeUnauthorized, "Unauthorized", true},
		{"internal", InternalError, http.StatusInternalServerError, ProblemTypeInternal, "Internal Server Error", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w, "detail text", "/api/v1/control/jump")

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("Content-Type = %q, want application/problem+json", ct)
			}
			if got := w.Header().Get("WWW-Authenticate") != ""; got != tt.challenge {
				t.Errorf("WWW-Authenticate present = %v, want %v", got, tt.challenge)
			}

			var p Problem
			if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
				t.Fatalf("decode: %v", err)
			}
			want := Problem{Type: tt.typ, Title: tt.title, Status: tt.status, Detail: "detail text", Instance: "/api/v1/control/jump"}
			if p != want {
				t.Errorf("problem = %+v, want %+v", p, want)
			}
		})
	}
}

func TestWriteProblemOmitsEmptyOptionalFields(t *testing.T) {
	w := httptest.NewRecorder()
	WriteProblem(w, newProblem(ProblemTypeInternal, http.StatusInternalServerError, "", ""))

	var raw map[string]any
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"detail", "instance"} {
		if _, ok := raw[key]; ok {
			t.Errorf("%s present, want omitted when empty", key)
		}
	}
}

func TestProblemError(t *testing.T) {
	p := Problem{Title: "Bad Request", Detail: "unparseable target"}
	if got, want := p.Error(), "Bad Request: unparseable target"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := (Problem{Title: "Unauthorized"}).Error(); got != "Unauthorized" {
		t.Errorf("Error() = %q, want %q", got, "Unauthorized")
	}
}
