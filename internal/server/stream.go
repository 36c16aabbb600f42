package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dgnsrekt/catalog-stream/internal/broadcast"
	"github.com/dgnsrekt/catalog-stream/internal/metrics"
)

// streamRecords writes every retained and future record as one JSON document
// per line until the client goes away or the broadcaster shuts down.
func (s *Server) streamRecords(w http.ResponseWriter, r *http.Request) {
	sub, err := s.broadcaster.Subscribe()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "stream is shut down")
		return
	}
	defer sub.Close()

	rc := http.NewResponseController(w)
	// The stream outlives the server's write timeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.logger.Warn("failed to clear write deadline", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.logger.Error("streaming not supported", zap.Error(err))
		return
	}

	metrics.StreamClientsConnected.WithLabelValues("ndjson").Inc()
	defer metrics.StreamClientsConnected.WithLabelValues("ndjson").Dec()

	s.logger.Info("stream client connected",
		zap.Uint64("subscription", sub.ID()),
		zap.String("remote_addr", r.RemoteAddr),
	)

	enc := json.NewEncoder(w)
	for {
		ev, err := sub.Next(r.Context())
		if err != nil {
			if errors.Is(err, broadcast.ErrSubscriptionClosed) {
				s.logger.Info("stream closed by server", zap.Uint64("subscription", sub.ID()))
			} else {
				s.logger.Info("stream client disconnected", zap.Uint64("subscription", sub.ID()))
			}
			return
		}
		if err := enc.Encode(ev.Record); err != nil {
			s.logger.Debug("failed to write to stream client", zap.Error(err))
			return
		}
		if err := rc.Flush(); err != nil {
			s.logger.Debug("failed to flush stream client", zap.Error(err))
			return
		}
	}
}
