// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("POST /polls/{pollId}/votes", middleware.WithLogging(handler))

Logs one line per request with method, path, status, and duration_ms.
The status-recording wrapper forwards Flush, so SSE handlers stream
normally when wrapped.

# CORS Middleware

Enable cross-origin requests for dashboards watching polls:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Credentials are allowed since the voter session travels in a cookie.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
