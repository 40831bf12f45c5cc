/*
Package chat contains the real-time messaging core.

This file defines the room membership store, the single writer of room
membership. Room kinds constrain shape at creation and who may join later.
*/
package chat

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"shutterchat/internal/pkg/errs"
	"shutterchat/internal/pkg/logx"
	"shutterchat/internal/pkg/randx"
)

// RoomKind determines a room's membership rules.
type RoomKind string

const (
	// RoomPrivate is a two-person conversation. Its member set is fixed at
	// creation; members may only leave.
	RoomPrivate RoomKind = "private"

	// RoomGroup is an invite-based room: the creator plus invited members.
	RoomGroup RoomKind = "group"

	// RoomPublic is open to anyone, any size including empty.
	RoomPublic RoomKind = "public"
)

// Room is a chat room with its metadata and member set. Membership is only
// mutated through the RoomStore.
type Room struct {
	ID        string
	Name      string
	Kind      RoomKind
	CreatedAt time.Time

	members map[string]struct{}
}

// RoomStore holds all rooms and owns their membership sets.
type RoomStore struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	logger zerolog.Logger
}

// NewRoomStore constructs an empty RoomStore.
func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms:  make(map[string]*Room),
		logger: logx.Logger().With().Str("component", "RoomStore").Logger(),
	}
}

// CreateRoom creates a room of the given kind. The creator is always part of
// the initial member set. Shape rules: private rooms need exactly two members,
// group rooms need at least one member besides the creator, public rooms may
// start at any size.
func (s *RoomStore) CreateRoom(name string, kind RoomKind, creatorID string, members []string) (*Room, *errs.CustomError) {
	memberSet := make(map[string]struct{}, len(members)+1)
	if creatorID != "" {
		memberSet[creatorID] = struct{}{}
	}
	for _, m := range members {
		if m != "" {
			memberSet[m] = struct{}{}
		}
	}

	switch kind {
	case RoomPrivate:
		if len(memberSet) != 2 {
			return nil, errs.NewError(errs.ErrRoomShapeInvalid)
		}
	case RoomGroup:
		if creatorID == "" || len(memberSet) < 2 {
			return nil, errs.NewError(errs.ErrRoomShapeInvalid)
		}
	case RoomPublic:
		// Any size, including zero.
	default:
		return nil, errs.NewError(errs.ErrRoomShapeInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var roomID string
	for {
		code, err := randx.RoomCode()
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to generate room code.")
			return nil, errs.NewError(errs.ErrUnknown)
		}
		if _, exists := s.rooms[code]; !exists {
			roomID = code
			break
		}
	}

	room := &Room{
		ID:        roomID,
		Name:      name,
		Kind:      kind,
		CreatedAt: time.Now(),
		members:   memberSet,
	}
	s.rooms[roomID] = room

	s.logger.Info().
		Str("room_id", roomID).
		Str("kind", string(kind)).
		Int("members", len(memberSet)).
		Msg("Room created.")

	return room, nil
}

// Join adds a user to a room. Private rooms never gain members; their set is
// fixed at creation. Adding an existing member is a no-op success.
func (s *RoomStore) Join(roomID, userID string) *errs.CustomError {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return errs.NewError(errs.ErrRoomNotFound)
	}

	if room.Kind == RoomPrivate {
		return errs.NewError(errs.ErrJoinNotAllowed)
	}

	room.members[userID] = struct{}{}
	return nil
}

// Leave removes a user from a room. Idempotent: leaving a room one is not in,
// or a room that does not exist, is a no-op success.
func (s *RoomStore) Leave(roomID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return
	}

	delete(room.members, userID)
}

// Members returns the member ids of a room, sorted for stable output.
func (s *RoomStore) Members(roomID string) ([]string, *errs.CustomError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil, errs.NewError(errs.ErrRoomNotFound)
	}

	members := make([]string, 0, len(room.members))
	for id := range room.members {
		members = append(members, id)
	}
	sort.Strings(members)

	return members, nil
}

// IsMember reports whether the user belongs to the room.
func (s *RoomStore) IsMember(roomID, userID string) (bool, *errs.CustomError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return false, errs.NewError(errs.ErrRoomNotFound)
	}

	_, member := room.members[userID]
	return member, nil
}

// Get returns a room by id.
func (s *RoomStore) Get(roomID string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	return room, ok
}

// RoomCount returns the number of rooms in the store.
func (s *RoomStore) RoomCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
