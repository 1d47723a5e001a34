package security_test

import (
	"testing"
	"time"

	"pirouette/internal/security"
)

const testSecret = "token-test-secret"

func TestSessionToken_RoundTrip(t *testing.T) {
	token, err := security.IssueSessionToken(testSecret, "user-1", "admin", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := security.ParseSessionToken(token, testSecret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("wrong user id: %q", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Fatalf("wrong role: %q", claims.Role)
	}
	if claims.ID == "" {
		t.Fatal("expected a token id")
	}
}

func TestSessionToken_WrongSecret(t *testing.T) {
	token, err := security.IssueSessionToken(testSecret, "user-1", "user", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := security.ParseSessionToken(token, "other-secret"); err == nil {
		t.Fatal("expected verification to fail with the wrong secret")
	}
}

func TestSessionToken_Expired(t *testing.T) {
	token, err := security.IssueSessionToken(testSecret, "user-1", "user", -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := security.ParseSessionToken(token, testSecret); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestSessionToken_Tampered(t *testing.T) {
	token, err := security.IssueSessionToken(testSecret, "user-1", "user", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := security.ParseSessionToken(tampered, testSecret); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}
