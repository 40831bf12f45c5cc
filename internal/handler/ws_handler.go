/*
Package handler provides the HTTP handler for WebSocket connection upgrading
and the inbound frame loop.

HandleWebSocket rate-limits the handshake, upgrades the HTTP connection,
admits it through the connection registry (which validates the token), replays
any queued deliveries, and then services inbound SUBMIT/ACK frames until the
peer disconnects.
*/
package handler

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"shutterchat/internal/app/chat"
	"shutterchat/internal/pkg/errs"
	"shutterchat/internal/pkg/limiter"
	"shutterchat/internal/pkg/logx"
	"shutterchat/internal/pkg/resp"
)

// submitPayload is the body of an inbound SUBMIT frame.
type submitPayload struct {
	Target      string            `json:"target"`
	Body        string            `json:"body"`
	Attachments []chat.Attachment `json:"attachments,omitempty"`
}

// ackPayload is the body of an inbound ACK frame.
type ackPayload struct {
	MessageID string `json:"messageId"`
}

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		query := r.URL.Query()
		identity := query.Get("uid")
		token := query.Get("token")
		namespace := query.Get("ns")
		if namespace == "" {
			namespace = chat.DefaultNamespace
		}

		if identity == "" || token == "" {
			logx.Warn("WebSocket request rejected: Missing uid or token query parameters.")
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		var tags []string
		if namespace == chat.DashboardNamespace {
			tags = append(tags, chat.TagDashboard)
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		transport := chat.NewWSTransport(conn)
		go transport.WritePump()

		admitted, customErr := deps.Registry.Admit(identity, token, namespace, transport, tags...)
		if customErr != nil {
			transport.Close(websocket.ClosePolicyViolation, customErr.Message)
			return
		}

		logx.Info("WebSocket connection established.",
			"identity", identity,
			"namespace", namespace,
			"connection_id", admitted.ID,
		)

		// Replay queued chat deliveries to the freshly live identity.
		if namespace == chat.DefaultNamespace {
			deps.Router.OnConnectionEstablished(identity)
		}

		transport.ReadPump(func(data []byte) {
			handleInboundFrame(deps, admitted, data)
		})

		deps.Registry.Remove(admitted.ID)
	}
}

// handleInboundFrame dispatches one frame read from a chat client.
func handleInboundFrame(deps *AppDeps, conn *chat.Connection, data []byte) {
	var inbound chat.InboundEnvelope
	if err := json.Unmarshal(data, &inbound); err != nil {
		logx.Warn("Client sent invalid JSON frame.", "identity", conn.Identity)
		sendError(conn, errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	switch inbound.Type {
	case chat.FrameSubmit:
		var payload submitPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			sendError(conn, errs.NewError(errs.ErrInvalidJSONFormat))
			return
		}

		result, customErr := deps.Router.Route(conn.Identity, payload.Body, payload.Target, payload.Attachments)
		if customErr != nil {
			sendError(conn, customErr)
			return
		}

		sendConfirmation(conn, inbound.TempID, result.MessageID)

	case chat.FrameAck:
		var payload ackPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			sendError(conn, errs.NewError(errs.ErrInvalidJSONFormat))
			return
		}

		deps.Router.Acknowledge(payload.MessageID, conn.Identity)

	default:
		logx.Warn("Client sent unsupported frame type.",
			"identity", conn.Identity,
			"frame_type", string(inbound.Type),
		)
	}
}

func sendError(conn *chat.Connection, customErr *errs.CustomError) {
	frame, err := json.Marshal(chat.Envelope{
		Type: chat.FrameError,
		Payload: chat.ErrorPayload{
			Code:    customErr.Code,
			Message: customErr.Message,
		},
	})
	if err != nil {
		logx.Error(err, "Failed to encode error frame")
		return
	}

	if sendErr := conn.Send(frame); sendErr != nil && !errors.Is(sendErr, chat.ErrConnectionClosing) {
		logx.Warn("Failed to queue error frame.", "identity", conn.Identity)
	}
}

func sendConfirmation(conn *chat.Connection, tempID, messageID string) {
	frame, err := json.Marshal(chat.Envelope{
		Type: chat.FrameConfirm,
		Payload: chat.ConfirmPayload{
			TempID:    tempID,
			MessageID: messageID,
			Timestamp: time.Now().UnixMilli(),
		},
	})
	if err != nil {
		logx.Error(err, "Failed to encode confirmation frame")
		return
	}

	if sendErr := conn.Send(frame); sendErr != nil {
		logx.Warn("Failed to queue confirmation frame.", "identity", conn.Identity)
	}
}
