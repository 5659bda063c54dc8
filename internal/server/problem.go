package server

import (
	"encoding/json"
	"net/http"
)

const problemBase = "https://timeshift.dev/problems/"

// Problem type URIs used by the daemon's RFC 7807 responses.
const (
	ProblemTypeBadRequest   = problemBase + "bad-request"
	ProblemTypeUnauthorized = problemBase + "unauthorized"
	ProblemTypeInternal     = problemBase + "internal-error"
)

// Problem is an RFC 7807 Problem Details document. It also implements
// error, so clients can return a decoded Problem as is.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func (p Problem) Error() string {
	if p.Detail != "" {
		return p.Title + ": " + p.Detail
	}
	return p.Title
}

// newProblem fills Title from the status text.
func newProblem(typ string, status int, detail, instance string) Problem {
	return Problem{
		Type:     typ,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: instance,
	}
}

// WriteProblem writes p as application/problem+json with p.Status.
func WriteProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// BadRequest rejects a malformed body, query or jump target.
func BadRequest(w http.ResponseWriter, detail, instance string) {
	WriteProblem(w, newProblem(ProblemTypeBadRequest, http.StatusBadRequest, detail, instance))
}

// Unauthorized rejects a missing or invalid bearer token and advertises
// the expected scheme.
func Unauthorized(w http.ResponseWriter, detail, instance string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="timeshift"`)
	WriteProblem(w, newProblem(ProblemTypeUnauthorized, http.StatusUnauthorized, detail, instance))
}

func InternalError(w http.ResponseWriter, detail, instance string) {
	WriteProblem(w, newProblem(ProblemTypeInternal, http.StatusInternalServerError, detail, instance))
}
