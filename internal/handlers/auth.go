// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"pagesmith/internal/models"
	"pagesmith/internal/store"
	"pagesmith/internal/token"
)

// Auth serves registration, email verification and login.
type Auth struct {
	users   *store.UserStore
	actions *store.ActionStore
	tokens  *token.Manager
}

// NewAuth creates the auth handler group with its dependencies.
func NewAuth(users *store.UserStore, actions *store.ActionStore, tokens *token.Manager) *Auth {
	return &Auth{users: users, actions: actions, tokens: tokens}
}

// Register handles POST /auth/register. New accounts start as unverified
// Guests; the verification link is delivered out of band. Until a mailer is
// wired in, the token lands in the server log.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Email == "" || body.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	existing, err := h.users.FindByEmail(body.Email)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error creating user")
		return
	}
	if existing != nil {
		writeMessage(w, http.StatusBadRequest, "Email already in use.")
		return
	}

	// A missing first name falls back to the email's local part so the
	// moderation queue always has something to display.
	if strings.TrimSpace(body.FirstName) == "" {
		body.FirstName = strings.SplitN(body.Email, "@", 2)[0]
	}

	user, err := h.users.Create(body.FirstName, body.LastName, body.Email, body.Password, models.ProfileGuest)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	sideEffect("audit create_user", func() error {
		_, err := h.actions.Record(&user.ID, models.ActionRefs{}, "create_user",
			map[string]any{"email": user.Email})
		return err
	})

	verifyToken, err := h.tokens.IssueVerification(user)
	if err != nil {
		slog.Error("issue verification token", "user_id", user.ID, "error", err)
	} else {
		slog.Info("verification token issued", "user_id", user.ID, "email", user.Email, "token", verifyToken)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered. Please verify your email.",
		"user":    user,
	})
}

// Verify handles GET /auth/verify?token=... and marks the account verified.
// Guests are promoted to Registered.
func (h *Auth) Verify(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		writeMessage(w, http.StatusBadRequest, "Verification token is required.")
		return
	}

	claims, err := h.tokens.ParseVerification(tokenString)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid or expired verification token.")
		return
	}

	user, err := h.users.FindByID(claims.UserID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error verifying user")
		return
	}
	if user == nil || user.Email != claims.Email {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	if err := h.users.SetVerified(user.ID); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error verifying user")
		return
	}

	writeMessage(w, http.StatusOK, "Email verified. You can now log in.")
}

// Login handles POST /auth/login. Admins are steered to the moderation view,
// everyone else to the builder home.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Email and password are required.")
		return
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))

	user, err := h.users.FindByEmail(body.Email)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error logging in")
		return
	}
	if user == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if !user.IsVerified {
		writeMessage(w, http.StatusForbidden, "Please verify your email first.")
		return
	}
	if !h.users.CheckPassword(user, body.Password) {
		writeMessage(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	sessionToken, err := h.tokens.Issue(user)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error logging in")
		return
	}

	redirectTo := "/home"
	if user.IsAdmin() {
		redirectTo = "/adminView"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Login successful",
		"token":      sessionToken,
		"redirectTo": redirectTo,
		"user":       user,
	})
}
