package security

import (
	"errors"
	"testing"
	"time"
)

func TestHashAndCheckPIN(t *testing.T) {
	hash, err := HashPIN("1234")
	if err != nil {
		t.Fatalf("HashPIN() error = %v", err)
	}
	if hash == "1234" {
		t.Fatal("hash must not equal the PIN")
	}

	if !CheckPIN(hash, "1234") {
		t.Error("correct PIN rejected")
	}
	if CheckPIN(hash, "4321") {
		t.Error("wrong PIN accepted")
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := NewSessionToken("test-secret", 42, "parent", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken() error = %v", err)
	}

	claims, err := ParseSessionToken("test-secret", token)
	if err != nil {
		t.Fatalf("ParseSessionToken() error = %v", err)
	}
	if claims.UserID != 42 || claims.Role != "parent" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.SessionID == "" {
		t.Error("missing session ID")
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, _ := NewSessionToken("test-secret", 42, "parent", time.Hour)

	if _, err := ParseSessionToken("other-secret", token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestSessionTokenExpired(t *testing.T) {
	token, _ := NewSessionToken("test-secret", 42, "parent", -time.Minute)

	if _, err := ParseSessionToken("test-secret", token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestGenerateSessionIDUnique(t *testing.T) {
	if GenerateSessionID() == GenerateSessionID() {
		t.Error("session IDs should not repeat")
	}
}
