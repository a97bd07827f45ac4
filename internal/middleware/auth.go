// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"pagesmith/internal/models"
	"pagesmith/internal/store"
	"pagesmith/internal/token"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// IdentityKey is the context key for the authenticated identity.
const IdentityKey contextKey = "identity"

// Identity is the authenticated caller attached to the request context:
// the numeric account id plus the fields authorization decisions need.
type Identity struct {
	ID    int64
	Email string
	Role  models.ProfileType
}

// IsAdmin returns true if the identity carries the Admin profile type.
func (id *Identity) IsAdmin() bool {
	return id.Role == models.ProfileAdmin
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// Authenticate verifies the bearer token, confirms the account still exists
// in the relational store, and requires a verified email before attaching
// the identity to the request context. The role comes from the current
// database row, not the token, so demotions take effect immediately.
func Authenticate(tokens *token.Manager, users *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				unauthorized(w, "No token provided")
				return
			}

			claims, err := tokens.Parse(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			user, err := users.FindByID(claims.UserID)
			if err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if user == nil || user.Email != claims.Email {
				unauthorized(w, "User not found")
				return
			}

			if !user.IsVerified {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{"message": "Please verify your email first."})
				return
			}

			ident := &Identity{ID: user.ID, Email: user.Email, Role: user.ProfileType}
			ctx := context.WithValue(r.Context(), IdentityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns 403 if the authenticated caller is not an admin.
// Must be applied after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := IdentityFromCtx(r.Context())
		if ident == nil || !ident.IsAdmin() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"message": "Forbidden"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// IdentityFromCtx extracts the authenticated identity from the request
// context. Returns nil if the request was not authenticated.
func IdentityFromCtx(ctx context.Context) *Identity {
	ident, _ := ctx.Value(IdentityKey).(*Identity)
	return ident
}
