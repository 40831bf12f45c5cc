package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// ConnectionTokenExpiration defines the duration of connection handshake tokens.
	ConnectionTokenExpiration = 15 * time.Minute

	// TokenIssuer identifies the issuer of the token.
	TokenIssuer = "ShutterChat-Server"
)

// GenerateToken creates and signs a JWT for the given subject and role.
func GenerateToken(subject, role, secretKey string, duration time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			ExpiresAt: now.Add(duration).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    TokenIssuer,
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}

// ParseToken parses and validates a JWT string using the provided secretKey.
// Expired or malformed tokens return an error.
func ParseToken(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	return claims, nil
}

// Validator is the token-validation capability the connection registry consumes.
// It validates handshake tokens without the registry knowing signature mechanics.
type Validator struct {
	secret string
}

// NewValidator returns a Validator that checks HMAC signatures with the given secret.
func NewValidator(secret string) *Validator {
	return &Validator{secret: secret}
}

// Validate parses the token and returns its claims, or an error for
// malformed/expired tokens.
func (v *Validator) Validate(tokenString string) (*Claims, error) {
	return ParseToken(tokenString, v.secret)
}
