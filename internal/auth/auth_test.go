package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestUserTokenRoundTrip(t *testing.T) {
	token, err := IssueUserToken("secret", "u123", time.Minute)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	claims, err := ParseUserToken("secret", token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims.UserID != "u123" {
		t.Fatalf("expected user u123, got %q", claims.UserID)
	}
}

func TestParseUserTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueUserToken("secret", "u123", time.Minute)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if _, err := ParseUserToken("other-secret", token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseUserTokenRejectsExpired(t *testing.T) {
	token, err := IssueUserToken("secret", "u123", -time.Minute)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if _, err := ParseUserToken("secret", token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseUserTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseUserToken("secret", "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyServiceTokenWithBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	if err := VerifyServiceToken(string(hash), "", "hunter2"); err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if err := VerifyServiceToken(string(hash), "", "wrong"); !errors.Is(err, ErrInvalidServiceToken) {
		t.Fatalf("expected ErrInvalidServiceToken, got %v", err)
	}
}

func TestVerifyServiceTokenPlainFallback(t *testing.T) {
	if err := VerifyServiceToken("", "devtoken", "devtoken"); err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if err := VerifyServiceToken("", "devtoken", "wrong"); !errors.Is(err, ErrInvalidServiceToken) {
		t.Fatalf("expected ErrInvalidServiceToken, got %v", err)
	}
}

func TestVerifyServiceTokenRejectsWhenUnconfigured(t *testing.T) {
	if err := VerifyServiceToken("", "", "anything"); !errors.Is(err, ErrInvalidServiceToken) {
		t.Fatalf("expected ErrInvalidServiceToken, got %v", err)
	}
	if err := VerifyServiceToken("", "devtoken", ""); !errors.Is(err, ErrInvalidServiceToken) {
		t.Fatalf("expected ErrInvalidServiceToken, got %v", err)
	}
}
