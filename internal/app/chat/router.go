/*
Package chat contains the real-time messaging core.

This file defines the message Router. It resolves a submission's target
(direct recipient or room), delivers live over the registry's connections or
enqueues for offline recipients, and replays queued messages on reconnect.
The router reads the registry and room store and writes only through the
delivery queue.
*/
package chat

import (
	"github.com/rs/zerolog"

	"shutterchat/internal/pkg/errs"
	"shutterchat/internal/pkg/logx"
	"shutterchat/internal/pkg/metrics"
	"shutterchat/internal/pkg/randx"
)

// DeliveryOutcome is the transient result of one per-recipient delivery
// attempt. Not retained; the delivery queue keeps the durable state.
type DeliveryOutcome string

const (
	// OutcomeLive means the message was pushed synchronously over an open connection.
	OutcomeLive DeliveryOutcome = "live-delivered"

	// OutcomeQueued means a pending delivery record was created instead.
	OutcomeQueued DeliveryOutcome = "queued"
)

// RouteResult reports the outcome of a single Route call: the assigned
// message id and the per-recipient delivery outcomes.
type RouteResult struct {
	MessageID  string                     `json:"messageId"`
	Deliveries map[string]DeliveryOutcome `json:"deliveries"`
}

// Router accepts outbound messages and resolves their recipients.
type Router struct {
	registry *Registry
	rooms    *RoomStore
	queue    *DeliveryQueue
	logger   zerolog.Logger
}

// NewRouter constructs a Router over the registry, room store, and queue.
func NewRouter(registry *Registry, rooms *RoomStore, queue *DeliveryQueue) *Router {
	return &Router{
		registry: registry,
		rooms:    rooms,
		queue:    queue,
		logger:   logx.Logger().With().Str("component", "Router").Logger(),
	}
}

// Route delivers a message from senderID to target, which is either a user id
// (direct message) or a room code (fan-out to every member but the sender).
// A target matching neither format fails with InvalidTarget and no side
// effects. Offline recipients are queued, never an error: partial fan-out is
// steady-state behavior.
func (rt *Router) Route(senderID, body, target string, attachments []Attachment) (*RouteResult, *errs.CustomError) {
	if body == "" && len(attachments) == 0 {
		return nil, errs.NewError(errs.ErrInvalidParams)
	}
	if len(body) > MaxContentBytes {
		return nil, errs.NewError(errs.ErrMessageContentTooLong)
	}
	if customErr := ValidateAttachments(attachments); customErr != nil {
		return nil, customErr
	}

	// User ids (UUIDs, guest ids) and room codes have disjoint formats.
	switch {
	case randx.IsValidUserID(target):
		return rt.routeDirect(senderID, body, target, attachments)
	case randx.IsValidRoomCode(target):
		return rt.routeRoom(senderID, body, target, attachments)
	default:
		return nil, errs.NewError(errs.ErrInvalidTarget)
	}
}

func (rt *Router) routeDirect(senderID, body, recipientID string, attachments []Attachment) (*RouteResult, *errs.CustomError) {
	msg := NewMessage(senderID, "", body, attachments)

	frame, err := encodeFrame(FrameChat, msg)
	if err != nil {
		rt.logger.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to encode message frame.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	outcome := rt.deliverTo(msg, frame, recipientID)

	return &RouteResult{
		MessageID:  msg.ID,
		Deliveries: map[string]DeliveryOutcome{recipientID: outcome},
	}, nil
}

func (rt *Router) routeRoom(senderID, body, roomID string, attachments []Attachment) (*RouteResult, *errs.CustomError) {
	members, customErr := rt.rooms.Members(roomID)
	if customErr != nil {
		return nil, customErr
	}

	isMember := false
	for _, member := range members {
		if member == senderID {
			isMember = true
			break
		}
	}
	if !isMember {
		return nil, errs.NewError(errs.ErrNotAMember)
	}

	msg := NewMessage(senderID, roomID, body, attachments)

	// Serialize once for the whole fan-out.
	frame, err := encodeFrame(FrameChat, msg)
	if err != nil {
		rt.logger.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to encode message frame.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	deliveries := make(map[string]DeliveryOutcome, len(members)-1)
	for _, member := range members {
		if member == senderID {
			continue
		}
		deliveries[member] = rt.deliverTo(msg, frame, member)
	}

	rt.logger.Debug().
		Str("message_id", msg.ID).
		Str("room_id", roomID).
		Int("recipients", len(deliveries)).
		Msg("Room message fanned out.")

	return &RouteResult{MessageID: msg.ID, Deliveries: deliveries}, nil
}

// deliverTo applies the direct-delivery rule for one recipient: push over the
// live connection when there is one, otherwise create a pending record.
func (rt *Router) deliverTo(msg Message, frame []byte, recipientID string) DeliveryOutcome {
	if conn := rt.registry.Lookup(recipientID); conn != nil {
		if err := conn.Send(frame); err == nil {
			metrics.MessagesRouted.WithLabelValues("live").Inc()
			return OutcomeLive
		}
		// A rejected push (queue full, teardown race) falls back to queueing.
	}

	rt.queue.Enqueue(msg, recipientID)
	metrics.MessagesRouted.WithLabelValues("queued").Inc()
	return OutcomeQueued
}

// Acknowledge records that the recipient durably stored the message.
// Idempotent; acknowledging an unknown or already-acknowledged record has no
// observable effect.
func (rt *Router) Acknowledge(messageID, recipientID string) {
	rt.queue.MarkAcknowledged(messageID, recipientID)
}

// OnConnectionEstablished replays the identity's queued messages over the new
// connection in FIFO order, marking each delivered as it is pushed. The
// client acknowledges separately. A failed push stops the replay; remaining
// records stay pending for the next reconnect.
func (rt *Router) OnConnectionEstablished(identity string) {
	conn := rt.registry.Lookup(identity)
	if conn == nil {
		return
	}

	pending := rt.queue.Drain(identity)
	if len(pending) == 0 {
		return
	}

	delivered := 0
	for _, msg := range pending {
		frame, err := encodeFrame(FrameChat, msg)
		if err != nil {
			rt.logger.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to encode queued message.")
			continue
		}

		if err := conn.Send(frame); err != nil {
			rt.logger.Warn().Err(err).
				Str("identity", identity).
				Str("message_id", msg.ID).
				Msg("Replay push failed; remaining records stay pending.")
			break
		}

		rt.queue.MarkDelivered(msg.ID, identity)
		delivered++
	}

	rt.logger.Info().
		Str("identity", identity).
		Int("delivered", delivered).
		Int("pending", len(pending)-delivered).
		Msg("Delivery queue drained on reconnect.")
}
