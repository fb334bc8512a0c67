package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateValidateRoundTrip(t *testing.T) {
	svc := NewHMACService("test-secret", time.Hour)

	token, err := svc.Generate("user-1", RoleApplicant, "a@example.com")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if claims.SubjectID != "user-1" {
		t.Errorf("expected subject user-1, got %q", claims.SubjectID)
	}
	if claims.TokenRole != RoleApplicant {
		t.Errorf("expected role %q, got %q", RoleApplicant, claims.TokenRole)
	}
	if claims.Email != "a@example.com" {
		t.Errorf("expected email to round-trip, got %q", claims.Email)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewHMACService("test-secret", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Generate("user-1", RoleApplicant, "")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, err := svc.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	minter := NewHMACService("secret-a", time.Hour)
	verifier := NewHMACService("secret-b", time.Hour)

	token, err := minter.Generate("user-1", RoleCompany, "")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, err := verifier.Validate(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	svc := NewHMACService("test-secret", time.Hour)

	if _, err := svc.Validate("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}
