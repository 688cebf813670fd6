// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the session issuer and cookie signing utilities.

# Session IDs

Each browser gets an opaque session id on first vote:

	sessionID := auth.NewSessionID()

The id is a random UUID. There is no account behind it; it exists only
to deduplicate votes from the same browser.

# Signed Cookies

Session ids travel in a signed cookie so a client cannot forge another
browser's identity by editing the cookie value:

	value := auth.SignSession(sessionID, secret)
	id, err := auth.VerifySession(value, secret)

The cookie value is "<id>.<signature>" with an HMAC-SHA256 signature,
URL-safe base64 encoded without padding. Verification is constant-time.
A cookie that fails verification is treated the same as no cookie at
all: the caller gets a fresh session.
*/
package auth
