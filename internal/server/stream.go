package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mastra-ai/go-mastra/internal/registry"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second    // time allowed to write a message to the peer
	pongWait       = 60 * time.Second    // time allowed to read the next pong message from the peer
	pingPeriod     = (pongWait * 9) / 10 // send pings to peer with this period. Must be less than pongWait
	maxMessageSize = 4096                // maximum message size allowed from peer
)

// streamSession is one websocket connection streaming an agent response
type streamSession struct {
	conn   *websocket.Conn
	send   chan []byte
	cancel context.CancelFunc
	log    zerolog.Logger

	mu     sync.Mutex
	closed bool
}

// serveStream reads one generate request off the connection, proxies it to
// the agent, and writes chunks back until the stream completes or the client
// goes away.
func serveStream(ctx context.Context, log zerolog.Logger, orchestrator *registry.Orchestrator, agentID string, conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(ctx)
	session := &streamSession{
		conn:   conn,
		send:   make(chan []byte, 2),
		cancel: cancel,
		log:    log,
	}
	defer session.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	var req registry.GenerateRequest
	if err := conn.ReadJSON(&req); err != nil {
		log.Debug().Err(err).Msg("failed to read generate request from websocket")
		return
	}

	chunks, _, err := orchestrator.Stream(ctx, agentID, req)
	if err != nil {
		payload, _ := json.Marshal(errorResponse{Message: err.Error()})
		_ = session.writeMessage(websocket.TextMessage, payload)
		return
	}

	go session.ReadPump()
	go func() {
		for chunk := range chunks {
			payload, _ := json.Marshal(chunk)
			select {
			case session.send <- payload:
			case <-ctx.Done():
			}
		}
		close(session.send)
	}()
	session.WritePump()
}

func (s *streamSession) ReadPump() {
	// watch for pongs and client closure
	defer func() {
		s.cancel()
		s.Close()
	}()
	s.conn.SetPongHandler(func(string) error { _ = s.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug().Err(err).Msg("websocket unexpected close error")
			}
			return
		}
	}
}

func (s *streamSession) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()
	for {
		select {
		case message, ok := <-s.send:
			if !ok {
				_ = s.writeMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.writeMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.writeMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}

func (s *streamSession) writeMessage(msgType int, payload []byte) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(msgType, payload)
}

func (s *streamSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	_ = s.conn.Close()
}
