package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/jsonviz/pkg/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// handleSocket binds a page to its session. Reads and writes stay on this
// goroutine except for pings, which go through WriteControl.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := s.manager.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	logger := s.logger.With("session", sess.ID)
	logger.Debug("view connected")

	conn.SetReadLimit(maxBodyBytes)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go ping(conn, done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("view disconnected", "error", err)
			}
			break
		}
		out, _ := dispatch(ctx, sess, data)
		for _, m := range out {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(m); err != nil {
				logger.Debug("write failed", "error", err)
				return
			}
		}
	}

	if err := s.manager.Save(context.WithoutCancel(ctx), sess); err != nil {
		logger.Warn("could not save session", "error", err)
	}
}

func ping(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// dispatch parses and applies one inbound message. Failures are reported as
// an error message in the returned slice as well as through err.
func dispatch(ctx context.Context, sess *session.Session, data []byte) ([]session.Message, error) {
	m, err := session.ParseMessage(data)
	if err != nil {
		return []session.Message{session.ErrorMessage(err)}, err
	}
	return sess.Handle(ctx, m)
}
