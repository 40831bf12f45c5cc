/*
Package chat contains the real-time messaging core.

This file implements Transport over a gorilla WebSocket connection: a buffered
send queue drained by a write pump with heartbeat pings, and a read pump that
hands inbound frames to a caller-supplied handler.
*/
package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"shutterchat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// sendQueueSize is the per-connection outbound frame buffer.
	sendQueueSize = 256

	// CloseCodeSessionReplaced is a custom WebSocket Close Code (4000-4999
	// range) signaling that the session was superseded by a new connection.
	CloseCodeSessionReplaced = 4001
)

// ErrSendQueueFull is returned when the outbound buffer has no room; the
// caller decides whether to queue the message or drop it.
var ErrSendQueueFull = errors.New("send queue full")

var errTransportClosed = errors.New("transport closed")

// WSTransport adapts a gorilla WebSocket connection to the Transport
// interface. All socket writes happen on the write pump goroutine; Send and
// Close only enqueue, so they are safe to call from any goroutine.
type WSTransport struct {
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool

	// closeMessage is emitted by the write pump after the send queue closes.
	// nil means a bare close frame.
	closeMessage []byte

	logger zerolog.Logger
}

// NewWSTransport wraps an upgraded WebSocket connection.
func NewWSTransport(conn *websocket.Conn) *WSTransport {
	return &WSTransport{
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		logger: logx.Logger().With().Str("component", "ws_transport").Logger(),
	}
}

// Send queues a frame for the write pump. Never blocks: a full queue fails
// immediately so the router can fall back to the delivery queue.
func (t *WSTransport) Send(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errTransportClosed
	}

	select {
	case t.send <- data:
		return nil
	default:
		t.logger.Warn().Int("queue_len", len(t.send)).Msg("Transport send queue full, rejecting frame.")
		return ErrSendQueueFull
	}
}

// Close records a close frame with the given code and shuts down the send
// queue; the write pump emits the frame as its final write. The pump is the
// sole socket writer, so Close never races a concurrent Send. Idempotent.
func (t *WSTransport) Close(code int, reason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	t.closed = true
	t.closeMessage = websocket.FormatCloseMessage(code, reason)
	close(t.send)
	return nil
}

// shutdown closes the send channel exactly once, which ends the write pump.
func (t *WSTransport) shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.closed {
		t.closed = true
		close(t.send)
	}
}

// pendingCloseMessage returns the close frame recorded by Close, or an empty
// frame when teardown came from the read side.
func (t *WSTransport) pendingCloseMessage() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closeMessage == nil {
		return []byte{}
	}
	return t.closeMessage
}

// WritePump drains the send queue to the socket and keeps the heartbeat alive.
// Runs in its own goroutine; returns when the queue closes or a write fails.
func (t *WSTransport) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := t.conn.Close(); err != nil {
			t.logger.Debug().Err(err).Msg("Connection close error in WritePump.")
		}
	}()

	for {
		select {
		case message, ok := <-t.send:
			if err := t.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				t.logger.Error().Err(err).Msg("Failed to set write deadline.")
				return
			}

			if !ok {
				t.conn.WriteMessage(websocket.CloseMessage, t.pendingCloseMessage())
				return
			}

			if err := t.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				t.logger.Info().Err(err).Msg("Error writing message.")
				return
			}

		case <-ticker.C:
			if err := t.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := t.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump reads frames from the socket and forwards them to handle. Blocks
// until the peer disconnects or a read fails; the caller performs registry
// cleanup afterwards.
func (t *WSTransport) ReadPump(handle func(data []byte)) {
	defer t.shutdown()

	t.conn.SetReadLimit(maxMessageSize)

	if err := t.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		t.logger.Error().Err(err).Msg("Failed to set read deadline.")
		return
	}

	t.conn.SetPongHandler(func(string) error {
		return t.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := t.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				t.logger.Info().Err(err).Msg("Unexpected close while reading.")
			}
			return
		}

		handle(messageBytes)
	}
}
