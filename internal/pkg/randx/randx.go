/*
Package randx provides functions for generating cryptographically secure random identifiers
and for validating the identifier formats the messaging core routes on.

Room codes are fixed-length Base62 strings; user ids are either registered-account UUIDs
or client-generated guest ids; message ids are UUID v4.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// RoomCodeLength is the fixed length required for a generated room code.
	RoomCodeLength = 6

	// GuestIDPrefix is the required prefix for client-generated guest ids.
	GuestIDPrefix = "guest_"

	// GuestIDRawLength is the fixed length of the Base62 part of a guest id.
	GuestIDRawLength = 6
)

// base62String generates a Base62 string of the given length using crypto/rand.
func base62String(length int) (string, error) {
	result := make([]byte, length)

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// RoomCode generates a Base62 encoded room code of length RoomCodeLength.
func RoomCode() (string, error) {
	code, err := base62String(RoomCodeLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate room code: %w", err)
	}
	return code, nil
}

// MessageID generates a UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}

// ConnectionID generates a UUID v4 string identifying a single transport connection.
func ConnectionID() string {
	return uuid.New().String()
}

// isBase62 reports whether every rune of s belongs to the Base62 character set.
func isBase62(s string) bool {
	for _, char := range s {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}
	return true
}

// IsValidRoomCode checks that the given string has room-code length and alphabet.
func IsValidRoomCode(code string) bool {
	return len(code) == RoomCodeLength && isBase62(code)
}

// IsValidGuestID checks that the given string is a well-formed guest id.
func IsValidGuestID(id string) bool {
	rawID, ok := strings.CutPrefix(id, GuestIDPrefix)
	if !ok {
		return false
	}

	return len(rawID) == GuestIDRawLength && isBase62(rawID)
}

// IsValidUserID reports whether the given string is a routable user identity:
// either a registered-account UUID or a guest id.
func IsValidUserID(id string) bool {
	if IsValidGuestID(id) {
		return true
	}

	_, err := uuid.Parse(id)
	return err == nil
}
