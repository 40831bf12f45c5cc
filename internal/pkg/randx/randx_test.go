package randx

import (
	"testing"
)

func TestRoomCode(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		code, err := RoomCode()
		if err != nil {
			t.Fatalf("RoomCode() failed: %v", err)
		}
		if !IsValidRoomCode(code) {
			t.Fatalf("RoomCode() = %q, fails its own validator", code)
		}
		seen[code] = struct{}{}
	}

	// Collisions over 100 draws from 62^6 would indicate broken randomness.
	if len(seen) != 100 {
		t.Errorf("generated %d unique codes out of 100", len(seen))
	}
}

func TestIsValidRoomCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"Ab3xYz", true},
		{"000000", true},
		{"abc", false},
		{"abcdefg", false},
		{"ab-xYz", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidRoomCode(tt.code); got != tt.want {
			t.Errorf("IsValidRoomCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestIsValidGuestID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"guest_Abc123", true},
		{"guest_000000", true},
		{"guest_abc", false},
		{"guest_Abc1234", false},
		{"guest_Ab-123", false},
		{"member_Abc123", false},
		{"Abc123", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidGuestID(tt.id); got != tt.want {
			t.Errorf("IsValidGuestID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestIsValidUserID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"guest_Abc123", true},
		{"f47ac10b-58cc-4372-a567-0e02b2c3d479", true},
		{"not-a-user", false},
		{"Ab3xYz", false}, // room-code shaped, not a user id
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidUserID(tt.id); got != tt.want {
			t.Errorf("IsValidUserID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestUserIDAndRoomCodeFormatsDisjoint(t *testing.T) {
	// Routing classifies targets by format alone, so the two namespaces must
	// never overlap.
	for i := 0; i < 50; i++ {
		code, err := RoomCode()
		if err != nil {
			t.Fatalf("RoomCode() failed: %v", err)
		}
		if IsValidUserID(code) {
			t.Errorf("room code %q also validates as a user id", code)
		}
	}

	if IsValidRoomCode(MessageID()) {
		t.Error("UUID validates as a room code")
	}
	if IsValidRoomCode("guest_Abc123") {
		t.Error("guest id validates as a room code")
	}
}

func TestMessageIDUnique(t *testing.T) {
	if MessageID() == MessageID() {
		t.Error("MessageID() returned duplicate values")
	}
}
