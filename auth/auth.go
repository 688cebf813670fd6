// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidSession = errors.New("invalid session token")

// NewSessionID mints an opaque session identifier for a first-time voter.
// The id carries no meaning beyond uniqueness; it is the only identity
// this system knows about.
func NewSessionID() string {
	return uuid.NewString()
}

// SignSession produces the cookie value for a session id: "<id>.<signature>",
// where the signature is an HMAC-SHA256 over the id keyed by the server
// secret. URL-safe base64 without padding.
func SignSession(sessionID, secret string) string {
	return sessionID + "." + signature(sessionID, secret)
}

// VerifySession checks a cookie value produced by SignSession and returns
// the embedded session id. Returns ErrInvalidSession for a malformed value
// or a signature mismatch.
func VerifySession(value, secret string) (string, error) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", ErrInvalidSession
	}
	if !hmac.Equal([]byte(sig), []byte(signature(id, secret))) {
		return "", ErrInvalidSession
	}
	return id, nil
}

func signature(sessionID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(sessionID))
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}
