package auth

import (
	"testing"
	"time"
)

func TestSignParseRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := SignJWT(secret, "u1", "alice", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := ParseJWT(secret, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Username != "alice" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := SignJWT([]byte("secret-a"), "u1", "alice", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseJWT([]byte("secret-b"), token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := SignJWT([]byte("secret"), "u1", "alice", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseJWT([]byte("secret"), token); err == nil {
		t.Error("expected error for expired token")
	}
}
