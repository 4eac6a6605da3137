package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidate(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30*time.Minute)

	token, err := issuer.Generate(1, "mom", 2, "admin")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != 1 {
		t.Errorf("UserID = %d, want 1", claims.UserID)
	}
	if claims.Subject != "mom" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "mom")
	}
	if claims.HouseholdID != 2 {
		t.Errorf("HouseholdID = %d, want 2", claims.HouseholdID)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want %q", claims.Role, "admin")
	}
}

func TestValidateWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-one", 30*time.Minute)
	other := NewTokenIssuer("secret-two", 30*time.Minute)

	token, err := issuer.Generate(1, "mom", 2, "member")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Generate(1, "mom", 2, "member")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := issuer.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30*time.Minute)

	if _, err := issuer.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsUnsignedToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30*time.Minute)

	claims := Claims{
		UserID:      1,
		HouseholdID: 2,
		Role:        "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "mom",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	if _, err := issuer.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for alg=none token, got %v", err)
	}
}
