package control

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/HerbHall/timeshift/internal/server"
)

// handleWatch streams Status frames over a websocket until the peer goes
// away. The client may ask for a tick with ?interval=250ms; frames are
// still capped at the configured watch_rate.
func (p *Plugin) handleWatch(w http.ResponseWriter, r *http.Request) {
	interval := p.watchInterval
	if q := r.URL.Query().Get("interval"); q != "" {
		d, err := time.ParseDuration(q)
		if err != nil || d <= 0 {
			server.BadRequest(w, "interval must be a positive duration", r.URL.Path)
			return
		}
		interval = d
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		p.logger.Debug("watch upgrade failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ctx := conn.CloseRead(r.Context())
	if err := p.stream(ctx, conn, interval); err != nil && !isClosed(err) {
		p.logger.Debug("watch stream ended", zap.Error(err))
		conn.Close(websocket.StatusInternalError, "stream error")
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

func (p *Plugin) stream(ctx context.Context, conn *websocket.Conn, interval time.Duration) error {
	limiter := rate.NewLimiter(p.watchRate, 1)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		if err := wsjson.Write(ctx, conn, CurrentStatus()); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func isClosed(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	status := websocket.CloseStatus(err)
	return status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway
}
