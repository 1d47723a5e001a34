package security_test

import (
	"bytes"
	"testing"

	"pirouette/internal/security"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := security.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ok, err := security.VerifyPassword("password123", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("expected matching password to verify")
	}
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	hash, err := security.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ok, err := security.VerifyPassword("password124", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("expected mismatch to fail verification")
	}
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	first, err := security.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := security.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Fatal("expected distinct salts to produce distinct hashes")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if _, err := security.VerifyPassword("password123", []byte("not-a-hash")); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}
