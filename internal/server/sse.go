package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/dgnsrekt/catalog-stream/internal/metrics"
)

// streamRecordsSSE is the server-sent events form of streamRecords. Each event
// carries the broadcast sequence as its id; a reconnecting client that sends
// Last-Event-ID skips the events it already has.
func (s *Server) streamRecordsSSE(w http.ResponseWriter, r *http.Request) {
	var lastSeen uint64
	if raw := r.Header.Get("Last-Event-ID"); raw != "" {
		seq, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Last-Event-ID must be a sequence number")
			return
		}
		lastSeen = seq
	}

	sub, err := s.broadcaster.Subscribe()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "stream is shut down")
		return
	}
	defer sub.Close()

	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.logger.Warn("failed to clear write deadline", zap.Error(err))
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.logger.Error("SSE not supported", zap.Error(err))
		return
	}

	metrics.StreamClientsConnected.WithLabelValues("sse").Inc()
	defer metrics.StreamClientsConnected.WithLabelValues("sse").Dec()

	s.logger.Info("sse client connected",
		zap.Uint64("subscription", sub.ID()),
		zap.Uint64("last_event_id", lastSeen),
		zap.String("remote_addr", r.RemoteAddr),
	)

	for {
		ev, err := sub.Next(r.Context())
		if err != nil {
			s.logger.Info("sse client disconnected", zap.Uint64("subscription", sub.ID()), zap.Error(err))
			return
		}
		if ev.Sequence <= lastSeen {
			continue
		}

		data, err := json.Marshal(ev.Record)
		if err != nil {
			s.logger.Error("failed to encode record", zap.String("id", ev.Record.ID), zap.Error(err))
			continue
		}
		if _, err := fmt.Fprintf(w, "id: %d\nevent: record\ndata: %s\n\n", ev.Sequence, data); err != nil {
			s.logger.Debug("failed to write to client", zap.Error(err))
			return
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
