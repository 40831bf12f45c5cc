/*
Package handler provides HTTP handler functions for message submission and
delivery acknowledgment — the same router operations the WebSocket frame loop
drives, exposed to the CRUD services at the boundary.
*/
package handler

import (
	"net/http"

	"shutterchat/internal/app/chat"
	"shutterchat/internal/pkg/errs"
	"shutterchat/internal/pkg/randx"
	"shutterchat/internal/pkg/req"
	"shutterchat/internal/pkg/resp"
)

type SubmitMessageInput struct {
	SenderID    string            `json:"senderId"`
	Body        string            `json:"body"`
	Target      string            `json:"target"`
	Attachments []chat.Attachment `json:"attachments,omitempty"`
}

// HandleSubmitMessage routes a message to a direct recipient or a room.
func HandleSubmitMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input SubmitMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !randx.IsValidUserID(input.SenderID) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		result, customErr := deps.Router.Route(input.SenderID, input.Body, input.Target, input.Attachments)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, result)
	}
}

type AcknowledgeInput struct {
	MessageID   string `json:"messageId"`
	RecipientID string `json:"recipientId"`
}

// HandleAcknowledge records that a recipient durably stored a message.
// Idempotent; acknowledging an unknown record still succeeds.
func HandleAcknowledge(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input AcknowledgeInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.MessageID == "" || input.RecipientID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		deps.Router.Acknowledge(input.MessageID, input.RecipientID)

		resp.RespondSuccess(w, r, nil)
	}
}
