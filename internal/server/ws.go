package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dgnsrekt/catalog-stream/internal/broadcast"
	"github.com/dgnsrekt/catalog-stream/internal/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer. Clients only send control frames.
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// streamRecordsWS is the WebSocket form of streamRecords: one JSON text
// message per record.
func (s *Server) streamRecordsWS(w http.ResponseWriter, r *http.Request) {
	sub, err := s.broadcaster.Subscribe()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "stream is shut down")
		return
	}
	defer sub.Close()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	metrics.StreamClientsConnected.WithLabelValues("websocket").Inc()
	defer metrics.StreamClientsConnected.WithLabelValues("websocket").Dec()

	s.logger.Info("websocket client connected",
		zap.Uint64("subscription", sub.ID()),
		zap.String("remote_addr", r.RemoteAddr),
	)

	ctx, cancel := context.WithCancel(context.Background())
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		defer cancel()
		s.readPump(conn, sub)
	}()

	s.writePump(ctx, conn, sub)

	// Unblock the reader and wait for it.
	conn.Close()
	<-readDone
}

// readPump discards client messages and keeps the read deadline alive on
// pongs. It returns once the connection fails or closes.
func (s *Server) readPump(conn *websocket.Conn, sub *broadcast.Subscription) {
	pongWait := s.pingInterval * 10 / 9

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read error",
					zap.Uint64("subscription", sub.ID()),
					zap.Error(err),
				)
			}
			return
		}
	}
}

func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, sub *broadcast.Subscription) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("websocket client disconnected", zap.Uint64("subscription", sub.ID()))
			return

		case <-sub.Done():
			s.writeStreamClosed(conn)
			return

		case ev, ok := <-sub.C():
			if !ok {
				s.writeStreamClosed(conn)
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev.Record); err != nil {
				s.logger.Debug("websocket write error",
					zap.Uint64("subscription", sub.ID()),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// writeStreamClosed tells the peer the broadcaster released the subscription.
func (s *Server) writeStreamClosed(conn *websocket.Conn) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "stream closed"))
}
