package journal

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/HerbHall/timeshift/internal/server"
)

func (p *Plugin) handleList(w http.ResponseWriter, r *http.Request) {
	limit := p.listLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxListLimit {
			server.BadRequest(w, "limit must be a positive integer no greater than "+strconv.Itoa(maxListLimit), r.URL.Path)
			return
		}
		limit = n
	}

	entries, err := p.repo.List(r.Context(), limit)
	if err != nil {
		p.logger.Error("list journal entries", zap.Error(err))
		server.InternalError(w, "failed to list journal entries", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (p *Plugin) handleClear(w http.ResponseWriter, r *http.Request) {
	n, err := p.repo.Clear(r.Context())
	if err != nil {
		p.logger.Error("clear journal entries", zap.Error(err))
		server.InternalError(w, "failed to clear journal entries", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"removed": n})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
