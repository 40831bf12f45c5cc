/*
Package handler provides HTTP handler functions for room creation and
membership changes. These are the boundary through which both clients and the
external moderation tooling drive the room membership store.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"shutterchat/internal/app/chat"
	"shutterchat/internal/pkg/errs"
	"shutterchat/internal/pkg/randx"
	"shutterchat/internal/pkg/req"
	"shutterchat/internal/pkg/resp"
)

type CreateRoomInput struct {
	// Name is the room display name.
	Name string `json:"name"`

	// Kind is one of "private", "group", "public".
	Kind string `json:"kind"`

	// CreatorID is the user creating the room.
	CreatorID string `json:"creatorId"`

	// Members are the initial member user ids (besides the creator).
	Members []string `json:"members,omitempty"`
}

// HandleCreateRoom processes room creation requests.
func HandleCreateRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateRoomInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.CreatorID != "" && !randx.IsValidUserID(input.CreatorID) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		room, customErr := deps.Rooms.CreateRoom(input.Name, chat.RoomKind(input.Kind), input.CreatorID, input.Members)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"roomId": room.ID,
			"kind":   string(room.Kind),
		})
	}
}

type MembershipInput struct {
	UserID string `json:"userId"`
}

// HandleJoinRoom adds a user to a room.
func HandleJoinRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "code")

		var input MembershipInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !randx.IsValidUserID(input.UserID) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if customErr := deps.Rooms.Join(roomID, input.UserID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleLeaveRoom removes a user from a room. Always succeeds; leaving a room
// one is not in is a no-op.
func HandleLeaveRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "code")

		var input MembershipInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		deps.Rooms.Leave(roomID, input.UserID)

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleRoomMembers returns a room's member set.
func HandleRoomMembers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "code")

		members, customErr := deps.Rooms.Members(roomID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"members": members,
		})
	}
}
