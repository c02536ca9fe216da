package jwt

import (
	"strings"
	"testing"
	"time"
)

func newTestManager() *Manager {
	return NewManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("svc-backend", "api")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateAccessToken() returned empty token")
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error: %v", err)
	}
	if claims.ClientID != "svc-backend" {
		t.Errorf("ClientID = %q, want svc-backend", claims.ClientID)
	}
	if claims.Scope != "api" {
		t.Errorf("Scope = %q, want api", claims.Scope)
	}
	if claims.Subject != "svc-backend" {
		t.Errorf("Subject = %q, want svc-backend", claims.Subject)
	}
	if claims.Issuer != "meeting-scribe" {
		t.Errorf("Issuer = %q, want meeting-scribe", claims.Issuer)
	}
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager("different-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("svc-backend", "api")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error: %v", err)
	}

	if _, err := other.ValidateAccessToken(token); err == nil {
		t.Error("ValidateAccessToken() should reject a token signed with another secret")
	}
}

func TestAccessTokenRejectsExpired(t *testing.T) {
	m := NewManager("access-secret", "refresh-secret", -time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("svc-backend", "api")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error: %v", err)
	}

	_, err = m.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("ValidateAccessToken() should reject an expired token")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("error %q should mention expiry", err)
	}
}

func TestAccessTokenRejectsGarbage(t *testing.T) {
	m := newTestManager()

	if _, err := m.ValidateAccessToken("not.a.token"); err == nil {
		t.Error("ValidateAccessToken() should reject a malformed token")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("svc-backend")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error: %v", err)
	}

	subject, err := m.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("ValidateRefreshToken() error: %v", err)
	}
	if subject != "svc-backend" {
		t.Errorf("subject = %q, want svc-backend", subject)
	}
}

func TestRefreshTokensAreUnique(t *testing.T) {
	m := newTestManager()

	first, err := m.GenerateRefreshToken("svc-backend")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error: %v", err)
	}
	second, err := m.GenerateRefreshToken("svc-backend")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error: %v", err)
	}
	if first == second {
		t.Error("tokens issued back to back must not collide")
	}
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	m := newTestManager()

	// Access and refresh tokens are signed with different secrets, so an
	// access token must never pass refresh validation.
	token, err := m.GenerateAccessToken("svc-backend", "api")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error: %v", err)
	}

	if _, err := m.ValidateRefreshToken(token); err == nil {
		t.Error("ValidateRefreshToken() should reject an access token")
	}
}

func TestHashToken(t *testing.T) {
	m := newTestManager()

	first, err := m.HashToken("refresh.jwt.value")
	if err != nil {
		t.Fatalf("HashToken() error: %v", err)
	}
	second, err := m.HashToken("refresh.jwt.value")
	if err != nil {
		t.Fatalf("HashToken() error: %v", err)
	}
	if first != second {
		t.Error("HashToken() should be deterministic")
	}
	if len(first) != 64 {
		t.Errorf("HashToken() digest length = %d, want 64 hex chars", len(first))
	}

	other, err := m.HashToken("another.jwt.value")
	if err != nil {
		t.Fatalf("HashToken() error: %v", err)
	}
	if other == first {
		t.Error("HashToken() should differ for different tokens")
	}

	if _, err := m.HashToken(""); err == nil {
		t.Error("HashToken() should reject an empty token")
	}
}
