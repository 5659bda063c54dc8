package control

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/HerbHall/timeshift/internal/metrics"
	"github.com/HerbHall/timeshift/internal/offset"
	"github.com/HerbHall/timeshift/internal/server"
	"github.com/HerbHall/timeshift/pkg/timeshift"
)

const maxBodyBytes = 1 << 16

func (p *Plugin) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CurrentStatus())
}

func (p *Plugin) handleShift(w http.ResponseWriter, r *http.Request) {
	var req ShiftRequest
	if err := decode(w, r, &req); err != nil {
		p.fail(metrics.OpShift)
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	delta, err := req.delta()
	if err != nil {
		p.fail(metrics.OpShift)
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	timeshift.ShiftTimeBy(delta)
	status := CurrentStatus()
	p.logger.Info("clock shifted",
		zap.Duration("delta", delta),
		zap.Duration("offset", timeshift.CurrentOffset()),
	)
	p.publish(r.Context(), TopicShifted, metrics.OpShift, status)
	writeJSON(w, http.StatusOK, status)
}

func (p *Plugin) handleJump(w http.ResponseWriter, r *http.Request) {
	var req JumpRequest
	if err := decode(w, r, &req); err != nil {
		p.fail(metrics.OpJump)
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	target, err := timeshift.AtValue(req.To)
	if err == nil {
		err = timeshift.JumpToTime(target)
	}
	if err != nil {
		p.fail(metrics.OpJump)
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	status := CurrentStatus()
	p.logger.Info("clock jumped",
		zap.Stringer("target", target),
		zap.Duration("offset", timeshift.CurrentOffset()),
	)
	p.publish(r.Context(), TopicJumped, metrics.OpJump, status)
	writeJSON(w, http.StatusOK, status)
}

func (p *Plugin) handleReset(w http.ResponseWriter, r *http.Request) {
	timeshift.ResetTime()
	status := CurrentStatus()
	p.logger.Info("clock reset")
	p.publish(r.Context(), TopicReset, metrics.OpReset, status)
	writeJSON(w, http.StatusOK, status)
}

// delta resolves the shift amount from whichever field is set.
func (req ShiftRequest) delta() (time.Duration, error) {
	switch {
	case req.MS != nil && req.Duration != "":
		return 0, errors.New("set either ms or duration, not both")
	case req.MS != nil:
		switch req.MS.(type) {
		case float64, json.Number, string:
		default:
			return 0, fmt.Errorf("ms: want a number or numeric string, got %T", req.MS)
		}
		ms, err := cast.ToFloat64E(req.MS)
		if err != nil {
			return 0, fmt.Errorf("ms: %w", err)
		}
		return offset.FromMillis(ms), nil
	case req.Duration != "":
		d, err := time.ParseDuration(req.Duration)
		if err != nil {
			return 0, fmt.Errorf("duration: %w", err)
		}
		return d, nil
	default:
		return 0, errors.New("one of ms or duration is required")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
