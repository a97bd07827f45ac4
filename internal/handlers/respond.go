// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP controllers for PageSmith:
// the template builder surface, the legacy page aggregate surface, the admin
// moderation queue, the audit log reads, and the account/auth endpoints.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pagesmith/internal/models"
)

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write json response", "error", err)
	}
}

// writeRawJSON writes an already-encoded JSON body, as produced by the
// published-library cache.
func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// writeMessage sends the standard {"message": ...} envelope used for errors
// and confirmations.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// docIDParam extracts and validates a document id from the URL. The caller
// sends a 400 when the shape is wrong — never a 404, which is reserved for
// well-formed ids with no document behind them.
func docIDParam(r *http.Request, name string) (models.DocID, error) {
	return models.ParseDocID(chi.URLParam(r, name))
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// sideEffect runs a best-effort write (audit entries, denormalized field
// updates) and logs failures instead of propagating them. The primary
// operation's outcome must never depend on fn succeeding.
func sideEffect(name string, fn func() error) {
	if err := fn(); err != nil {
		slog.Warn("side effect failed", "effect", name, "error", err)
	}
}
