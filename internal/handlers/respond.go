// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP API: public read endpoints for the
// blog frontend, and the session-authenticated admin surface for authoring.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"pillarpress/internal/apperr"
)

// respondJSON serializes v and writes it with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// errorBody is the uniform error payload. Issues is populated only for
// validation failures.
type errorBody struct {
	Error  string   `json:"error"`
	Issues []string `json:"issues,omitempty"`
}

// respondError writes a JSON error payload.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorBody{Error: msg})
}

// respondAppError maps the application error taxonomy onto HTTP statuses.
// Unknown errors are logged and reported as a generic 500 so internals
// never leak to clients.
func respondAppError(w http.ResponseWriter, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Issues: verr.Issues})
	case errors.Is(err, apperr.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		respondError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a JSON request body into dst, capping the body size.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", apperr.ErrValidation)
	}
	return nil
}
