// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestNewSessionID(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()

	if a == "" || b == "" {
		t.Fatal("Expected non-empty session ids")
	}
	if a == b {
		t.Error("Expected unique session ids")
	}
}

func TestSignAndVerifySession(t *testing.T) {
	secret := "test-cookie-secret"
	sessionID := NewSessionID()

	value := SignSession(sessionID, secret)

	if !strings.HasPrefix(value, sessionID+".") {
		t.Errorf("Expected cookie value to start with session id, got %s", value)
	}

	got, err := VerifySession(value, secret)
	if err != nil {
		t.Fatalf("VerifySession failed: %v", err)
	}
	if got != sessionID {
		t.Errorf("Expected session id %s, got %s", sessionID, got)
	}
}

func TestVerifySession_Invalid(t *testing.T) {
	secret := "test-cookie-secret"
	sessionID := NewSessionID()
	valid := SignSession(sessionID, secret)

	tests := []struct {
		name  string
		value string
	}{
		{"empty value", ""},
		{"no separator", sessionID},
		{"empty id", "." + signature("", secret)},
		{"tampered id", "someone-else." + strings.SplitN(valid, ".", 2)[1]},
		{"tampered signature", sessionID + ".AAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifySession(tt.value, secret); err != ErrInvalidSession {
				t.Errorf("Expected ErrInvalidSession, got %v", err)
			}
		})
	}
}

func TestVerifySession_WrongSecret(t *testing.T) {
	sessionID := NewSessionID()
	value := SignSession(sessionID, "secret-one")

	if _, err := VerifySession(value, "secret-two"); err != ErrInvalidSession {
		t.Errorf("Expected ErrInvalidSession with wrong secret, got %v", err)
	}
}
