package security

import (
	"testing"
	"time"
)

func TestJWTManagerSignAndParse(t *testing.T) {
	mgr, err := NewJWTManager("test-secret", "support-test", time.Minute)
	if err != nil {
		t.Fatalf("NewJWTManager returned error: %v", err)
	}

	signed, claims, err := mgr.Sign(42, "moderator")
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected a JTI on issued claims")
	}

	parsed, err := mgr.Parse(signed)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	id, err := parsed.AdminID()
	if err != nil {
		t.Fatalf("AdminID returned error: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected admin id 42, got %d", id)
	}
	if parsed.Username != "moderator" {
		t.Fatalf("expected username claim, got %q", parsed.Username)
	}
	if parsed.ID != claims.ID {
		t.Fatalf("expected JTI %q, got %q", claims.ID, parsed.ID)
	}
}

func TestJWTManagerRejectsForeignSignature(t *testing.T) {
	issuer, err := NewJWTManager("secret-a", "support-test", time.Minute)
	if err != nil {
		t.Fatalf("NewJWTManager returned error: %v", err)
	}
	verifier, err := NewJWTManager("secret-b", "support-test", time.Minute)
	if err != nil {
		t.Fatalf("NewJWTManager returned error: %v", err)
	}

	signed, _, err := issuer.Sign(1, "admin")
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	if _, err := verifier.Parse(signed); err == nil {
		t.Fatal("expected parse to fail for mismatched secret")
	}
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	if _, err := NewJWTManager("  ", "support-test", time.Minute); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
