/*
Package chat contains the real-time messaging core: the connection registry,
room membership store, delivery queue, message router, and the ops dashboard
broadcast channel.

This file defines the Message type and the wire envelope shared by the chat
and dashboard paths.
*/
package chat

import (
	"encoding/json"
	"time"

	"shutterchat/internal/pkg/randx"
)

// MaxContentBytes is the maximum allowed size (in bytes) for message body content.
const MaxContentBytes = 5000

// FrameType identifies the kind of payload inside a wire envelope.
type FrameType string

const (
	// FrameChat carries a chat Message.
	FrameChat FrameType = "CHAT"

	// FrameSnapshot carries a dashboard Snapshot.
	FrameSnapshot FrameType = "DASHBOARD_SNAPSHOT"

	// FrameAlert carries a dashboard Alert.
	FrameAlert FrameType = "DASHBOARD_ALERT"

	// FrameError carries an ErrorPayload back to the client.
	FrameError FrameType = "ERROR"

	// FrameConfirm echoes the authoritative message id back to the submitter.
	FrameConfirm FrameType = "CONFIRM"
)

// ConfirmPayload is the body of a FrameConfirm envelope.
type ConfirmPayload struct {
	TempID    string `json:"tempId,omitempty"`
	MessageID string `json:"messageId"`
	Timestamp int64  `json:"timestamp"`
}

// Envelope is the JSON frame written to a transport connection.
type Envelope struct {
	Type    FrameType `json:"type"`
	Payload any       `json:"payload"`
}

// InboundEnvelope is the frame read from a client connection. The payload is
// left raw until the frame type selects a concrete shape. TempID is a
// client-chosen correlation id echoed back in the confirmation.
type InboundEnvelope struct {
	Type    FrameType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	TempID  string          `json:"tempId,omitempty"`
}

// Inbound frame types accepted from chat clients.
const (
	// FrameSubmit asks the router to deliver a message to a user or room.
	FrameSubmit FrameType = "SUBMIT"

	// FrameAck confirms that the client durably recorded a delivered message.
	FrameAck FrameType = "ACK"
)

// Message is a single chat message. Immutable once created; delivery state is
// tracked separately by the delivery queue.
type Message struct {
	// ID is the unique message identifier, assigned at creation.
	ID string `json:"id"`

	// SenderID is the identity of the submitting user.
	SenderID string `json:"senderId"`

	// RoomID is set for room messages; empty for direct messages.
	RoomID string `json:"roomId,omitempty"`

	// Body is the text content.
	Body string `json:"body"`

	// Attachments are optional validated photo references.
	Attachments []Attachment `json:"attachments,omitempty"`

	// Timestamp is the creation time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// NewMessage constructs a Message with a fresh id and creation timestamp.
func NewMessage(senderID, roomID, body string, attachments []Attachment) Message {
	return Message{
		ID:          randx.MessageID(),
		SenderID:    senderID,
		RoomID:      roomID,
		Body:        body,
		Attachments: attachments,
		Timestamp:   time.Now().UnixMilli(),
	}
}

// ErrorPayload is the body of a FrameError envelope.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// encodeFrame marshals an envelope for the wire.
func encodeFrame(frameType FrameType, payload any) ([]byte, error) {
	return json.Marshal(Envelope{Type: frameType, Payload: payload})
}
