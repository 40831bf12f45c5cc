package jwt

import "github.com/golang-jwt/jwt"

// Claims defines the JWT claims carried by ShutterChat connection tokens.
// The messaging core only relies on the subject, role, and expiry; everything
// else about token issuance belongs to the account service.
type Claims struct {
	// StandardClaims embeds the JWT standard fields: Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). Expiry validation happens here.
	jwt.StandardClaims

	// Role is the participant's role, used to gate operator-only surfaces
	// (e.g., "member", "guest", "ops").
	Role string `json:"role"`
}

// Roles recognized by the server.
const (
	RoleMember = "member"
	RoleGuest  = "guest"
	RoleOps    = "ops"
)
