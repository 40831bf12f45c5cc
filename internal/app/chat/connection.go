/*
Package chat contains the real-time messaging core.

This file defines the Connection type, the registry-owned view of one live
client session, and the Transport abstraction that keeps the core independent
of the WebSocket machinery.
*/
package chat

import (
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"

	"shutterchat/internal/pkg/auth/jwt"
	"shutterchat/internal/pkg/logx"
	"shutterchat/internal/pkg/randx"
)

// ErrConnectionClosing is returned by Send once teardown has begun.
var ErrConnectionClosing = errors.New("connection is tearing down")

// Transport is the write side of a client connection. Send must not block:
// implementations queue the frame or fail immediately.
type Transport interface {
	Send(data []byte) error
	Close(code int, reason string) error
}

// Connection represents one admitted transport connection. The registry is
// the sole owner of its liveness state; no other component mutates it.
type Connection struct {
	// ID uniquely identifies this connection instance (not the user).
	ID string

	// Identity is the user id this connection authenticated as.
	Identity string

	// Namespace separates independent transport surfaces (chat, dashboard).
	Namespace string

	// Claims are the validated token claims presented at admission.
	Claims *jwt.Claims

	tags      map[string]struct{}
	transport Transport
	closing   atomic.Bool
	logger    zerolog.Logger
}

func newConnection(identity, namespace string, claims *jwt.Claims, transport Transport, tags []string) *Connection {
	tagSet := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tagSet[tag] = struct{}{}
	}

	connID := randx.ConnectionID()

	return &Connection{
		ID:        connID,
		Identity:  identity,
		Namespace: namespace,
		Claims:    claims,
		tags:      tagSet,
		transport: transport,
		logger: logx.Logger().With().
			Str("connection_id", connID).
			Str("identity", identity).
			Str("namespace", namespace).
			Logger(),
	}
}

// HasTag reports whether the connection carries a subscription tag.
// Tags never imply room membership; routing checks membership separately.
func (c *Connection) HasTag(tag string) bool {
	_, ok := c.tags[tag]
	return ok
}

// Send pushes a frame to the peer. Fails once teardown has begun so no
// delivery is attempted to a connection mid-removal.
func (c *Connection) Send(data []byte) error {
	if c.closing.Load() {
		return ErrConnectionClosing
	}
	return c.transport.Send(data)
}

// beginTeardown marks the connection as closing. Idempotent.
func (c *Connection) beginTeardown() {
	c.closing.Store(true)
}

// kick closes the peer with a session-replaced close frame. Called by the
// registry when a newer connection supersedes this one.
func (c *Connection) kick(reason string) {
	c.beginTeardown()

	if err := c.transport.Close(CloseCodeSessionReplaced, reason); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to close superseded connection.")
	}
}
