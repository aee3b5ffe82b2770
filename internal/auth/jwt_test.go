package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := Tokens{Secret: []byte("test-secret"), TTL: time.Hour}
	const userID = "11111111-1111-1111-1111-111111111111"

	signed, err := tokens.Generate(userID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	got, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != userID {
		t.Fatalf("verify returned %q, expected %q", got, userID)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tokens := Tokens{Secret: []byte("secret-a"), TTL: time.Hour}
	signed, err := tokens.Generate("11111111-1111-1111-1111-111111111111")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := Tokens{Secret: []byte("secret-b"), TTL: time.Hour}
	if _, err := other.Verify(signed); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	tokens := Tokens{Secret: []byte("test-secret"), TTL: -time.Minute}
	signed, err := tokens.Generate("11111111-1111-1111-1111-111111111111")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := tokens.Verify(signed); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestVerifyRejectsNonUUIDClaim(t *testing.T) {
	tokens := Tokens{Secret: []byte("test-secret"), TTL: time.Hour}
	signed, err := tokens.Generate("not-a-uuid")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := tokens.Verify(signed); err == nil {
		t.Fatal("expected error for non-uuid user_id claim")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tokens := Tokens{Secret: []byte("test-secret"), TTL: time.Hour}
	if _, err := tokens.Verify("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
