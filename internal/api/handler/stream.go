package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/edvin/statusboard/internal/core"
)

const streamBuffer = 64

// Stream pushes tree events to WebSocket subscribers. It is wired into
// the tree as an event sink; Publish never blocks, a subscriber that
// stops draining its buffer is dropped.
type Stream struct {
	logger zerolog.Logger

	mu      sync.Mutex
	clients map[chan core.Event]struct{}
}

func NewStream(logger zerolog.Logger) *Stream {
	return &Stream{
		logger:  logger.With().Str("component", "stream").Logger(),
		clients: make(map[chan core.Event]struct{}),
	}
}

// Publish implements core.EventSink.
func (s *Stream) Publish(e core.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.clients {
		select {
		case ch <- e:
		default:
			// Slow consumer. Close the channel so its writer loop exits.
			delete(s.clients, ch)
			close(ch)
		}
	}
}

func (s *Stream) subscribe() chan core.Event {
	ch := make(chan core.Event, streamBuffer)
	s.mu.Lock()
	s.clients[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *Stream) unsubscribe(ch chan core.Event) {
	s.mu.Lock()
	if _, ok := s.clients[ch]; ok {
		delete(s.clients, ch)
		close(ch)
	}
	s.mu.Unlock()
}

// Subscribers returns the number of connected clients.
func (s *Stream) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Connect upgrades to WebSocket and streams tree events as JSON text
// messages until the client disconnects.
func (s *Stream) Connect(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Origin differs from Host when proxied through the UI.
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer ws.CloseNow()

	ch := s.subscribe()
	defer s.unsubscribe(ch)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Drain incoming frames so pings and the close handshake are handled.
	go func() {
		for {
			if _, _, err := ws.Read(ctx); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			ws.Close(websocket.StatusNormalClosure, "")
			return
		case e, ok := <-ch:
			if !ok {
				ws.Close(websocket.StatusPolicyViolation, "event buffer overflow")
				return
			}
			writeCtx, writeCancel := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(writeCtx, ws, e)
			writeCancel()
			if err != nil {
				return
			}
		}
	}
}
