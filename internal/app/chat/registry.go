/*
Package chat contains the real-time messaging core.

This file defines the connection Registry, the single writer of connection
liveness. It admits authenticated connections, enforces the one-connection-
per-identity-per-namespace invariant, and counts failed handshakes so
flapping identities surface on the ops dashboard.
*/
package chat

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"shutterchat/internal/pkg/auth/jwt"
	"shutterchat/internal/pkg/errs"
	"shutterchat/internal/pkg/logx"
	"shutterchat/internal/pkg/metrics"
)

const (
	// DefaultNamespace is the chat transport namespace the router delivers to.
	DefaultNamespace = "chat"

	// DashboardNamespace is the transport namespace for ops dashboard sessions.
	DashboardNamespace = "dashboard"

	// TagDashboard marks a connection as a dashboard broadcast subscriber.
	TagDashboard = "dashboard"

	// AlertKindFlapping is published when an identity keeps failing handshakes.
	AlertKindFlapping = "identity_flapping"
)

// TokenValidator is the external auth capability consumed at admission.
// The registry never verifies signatures itself.
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

// AlertSink receives operational alert events. Implemented by the dashboard
// Broadcaster; optional.
type AlertSink interface {
	PublishAlert(kind, message string)
}

type connKey struct {
	identity  string
	namespace string
}

// Registry tracks live transport connections keyed by identity and namespace.
type Registry struct {
	mu    sync.RWMutex
	conns map[connKey]*Connection
	byID  map[string]*Connection

	// consecutive failed handshakes per identity, capped at flapThreshold.
	failedHandshakes map[string]int
	flapThreshold    int

	validator TokenValidator
	alerts    AlertSink

	logger zerolog.Logger
}

// NewRegistry constructs a Registry using the given token-validation
// capability. flapThreshold is the consecutive-failure count at which an
// identity is flagged for the dashboard.
func NewRegistry(validator TokenValidator, flapThreshold int) *Registry {
	return &Registry{
		conns:            make(map[connKey]*Connection),
		byID:             make(map[string]*Connection),
		failedHandshakes: make(map[string]int),
		flapThreshold:    flapThreshold,
		validator:        validator,
		logger:           logx.Logger().With().Str("component", "Registry").Logger(),
	}
}

// SetAlertSink wires the dashboard broadcast channel in after construction.
// The broadcaster fans out through the registry, so it is built second.
func (r *Registry) SetAlertSink(sink AlertSink) {
	r.alerts = sink
}

// Admit validates the handshake token and registers a new connection. A prior
// connection for the same identity and namespace is kicked and replaced
// (last-writer-wins). Returns AuthRejected for malformed, expired, or
// subject-mismatched tokens.
func (r *Registry) Admit(identity, token, namespace string, transport Transport, tags ...string) (*Connection, *errs.CustomError) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	claims, err := r.validator.Validate(token)
	if err != nil || claims.Subject != identity {
		r.recordHandshakeFailure(identity)
		metrics.HandshakesRejected.Inc()

		r.logger.Warn().
			Str("identity", identity).
			Str("namespace", namespace).
			Msg("Handshake rejected: invalid token.")

		return nil, errs.NewError(errs.ErrAuthRejected)
	}

	conn := newConnection(identity, namespace, claims, transport, tags)
	key := connKey{identity: identity, namespace: namespace}

	r.mu.Lock()
	r.failedHandshakes[identity] = 0

	prior := r.conns[key]
	if prior != nil {
		delete(r.byID, prior.ID)
	}

	r.conns[key] = conn
	r.byID[conn.ID] = conn
	total := len(r.byID)
	r.mu.Unlock()

	if prior != nil {
		r.logger.Info().
			Str("identity", identity).
			Str("replaced_connection_id", prior.ID).
			Msg("Identity already connected. Replacing prior connection.")

		prior.kick("Session replaced by new connection. Check other tabs.")
	}

	metrics.ConnectionsAdmitted.Inc()
	metrics.ConnectionsActive.Set(float64(total))

	r.logger.Info().
		Str("identity", identity).
		Str("namespace", namespace).
		Str("connection_id", conn.ID).
		Int("total_connections", total).
		Msg("Connection admitted.")

	return conn, nil
}

// Remove drops a connection by id. Idempotent; safe after the transport has
// already closed. The connection is marked tearing-down before removal so no
// delivery is attempted against it.
func (r *Registry) Remove(connectionID string) {
	r.mu.Lock()

	conn, ok := r.byID[connectionID]
	if !ok {
		r.mu.Unlock()
		return
	}

	conn.beginTeardown()

	delete(r.byID, connectionID)

	key := connKey{identity: conn.Identity, namespace: conn.Namespace}
	if current := r.conns[key]; current == conn {
		delete(r.conns, key)
	}

	total := len(r.byID)
	r.mu.Unlock()

	metrics.ConnectionsActive.Set(float64(total))

	r.logger.Info().
		Str("connection_id", connectionID).
		Str("identity", conn.Identity).
		Int("total_connections", total).
		Msg("Connection removed.")
}

// Lookup returns the live chat-namespace connection for an identity, or nil.
// Connections mid-teardown are reported as absent.
func (r *Registry) Lookup(identity string) *Connection {
	r.mu.RLock()
	conn := r.conns[connKey{identity: identity, namespace: DefaultNamespace}]
	r.mu.RUnlock()

	if conn == nil || conn.closing.Load() {
		return nil
	}
	return conn
}

// Tagged returns every live connection carrying the given subscription tag,
// across namespaces.
func (r *Registry) Tagged(tag string) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tagged []*Connection
	for _, conn := range r.byID {
		if conn.HasTag(tag) && !conn.closing.Load() {
			tagged = append(tagged, conn)
		}
	}
	return tagged
}

// ConnectionCount returns the number of live connections.
func (r *Registry) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// FailedHandshakes returns the consecutive failed-handshake count for an
// identity. Diagnostic only; client backoff policy lives client-side.
func (r *Registry) FailedHandshakes(identity string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.failedHandshakes[identity]
}

// recordHandshakeFailure bumps the per-identity failure counter and raises a
// flapping alert exactly once, on the failure that first reaches the
// configured ceiling. The counter stays capped at the ceiling, so later
// failures must not re-fire the alert.
func (r *Registry) recordHandshakeFailure(identity string) {
	if identity == "" {
		return
	}

	r.mu.Lock()
	prev := r.failedHandshakes[identity]
	count := prev + 1
	if count > r.flapThreshold {
		count = r.flapThreshold
	}
	r.failedHandshakes[identity] = count
	crossed := prev < r.flapThreshold && count == r.flapThreshold
	r.mu.Unlock()

	if crossed && r.alerts != nil {
		r.alerts.PublishAlert(AlertKindFlapping,
			fmt.Sprintf("identity %s failed %d consecutive handshakes", identity, count))
	}
}
