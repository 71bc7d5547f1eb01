package jwt

import (
	"testing"

	"github.com/google/uuid"
)

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()
	privileges := []string{"sale:create", "cashbox:view"}

	token, err := GenerateToken(userID, "seller@example.com", "Seller", "MANAGER", privileges, "v1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "seller@example.com" || claims.RoleCode != "MANAGER" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.TokenVersion != "v1" {
		t.Fatalf("token version = %s", claims.TokenVersion)
	}
	if len(claims.Privileges) != 2 || claims.Privileges[0] != "sale:create" {
		t.Fatalf("privileges = %v", claims.Privileges)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestValidateTokenRejectsTamperedSignature(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "a@b.c", "A", "ADMIN", nil, "v1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	tampered := token + "x"
	if _, err := ValidateToken(tampered); err == nil {
		t.Fatal("expected error for tampered token")
	}
}
