package jwt

import (
	"testing"
	"time"
)

const testSecret = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("guest_Abc123", RoleGuest, testSecret, ConnectionTokenExpiration)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	claims, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken() failed: %v", err)
	}

	if claims.Subject != "guest_Abc123" {
		t.Errorf("Subject = %q, want guest_Abc123", claims.Subject)
	}
	if claims.Role != RoleGuest {
		t.Errorf("Role = %q, want %q", claims.Role, RoleGuest)
	}
	if claims.Issuer != TokenIssuer {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, TokenIssuer)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("guest_Abc123", RoleGuest, testSecret, ConnectionTokenExpiration)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	if _, err := ParseToken(token, "different-secret"); err == nil {
		t.Error("ParseToken() accepted token signed with a different secret")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("guest_Abc123", RoleGuest, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	if _, err := ParseToken(token, testSecret); err == nil {
		t.Error("ParseToken() accepted expired token")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseToken("not.a.token", testSecret); err == nil {
		t.Error("ParseToken() accepted malformed token")
	}
}

func TestValidator(t *testing.T) {
	validator := NewValidator(testSecret)

	token, err := GenerateToken("f47ac10b-58cc-4372-a567-0e02b2c3d479", RoleMember, testSecret, ConnectionTokenExpiration)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	claims, err := validator.Validate(token)
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if claims.Subject != "f47ac10b-58cc-4372-a567-0e02b2c3d479" {
		t.Errorf("Subject = %q", claims.Subject)
	}

	if _, err := validator.Validate("garbage"); err == nil {
		t.Error("Validate() accepted garbage token")
	}
}
