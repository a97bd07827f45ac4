// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"pagesmith/internal/middleware"
	"pagesmith/internal/models"
	"pagesmith/internal/store"
)

// Users serves account management. Listing, creating, updating and deleting
// accounts is admin-only; a user may read their own record.
type Users struct {
	users   *store.UserStore
	actions *store.ActionStore
}

// NewUsers creates the user handler group with its dependencies.
func NewUsers(users *store.UserStore, actions *store.ActionStore) *Users {
	return &Users{users: users, actions: actions}
}

func userIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	return id, err == nil && id > 0
}

// List handles GET /users. Admin-only (enforced by the router).
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error retrieving users")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// Get handles GET /users/{userId}. Admins may read anyone; other callers only
// themselves.
func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	ident := middleware.IdentityFromCtx(r.Context())
	if !ident.IsAdmin() && ident.ID != id {
		writeMessage(w, http.StatusForbidden, "Forbidden")
		return
	}

	user, err := h.users.FindByID(id)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error retrieving user")
		return
	}
	if user == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Create handles POST /users. Admin-only; unlike self registration the
// profile type can be chosen and the account starts verified.
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FirstName   string             `json:"first_name"`
		LastName    string             `json:"last_name"`
		Email       string             `json:"email"`
		Password    string             `json:"password"`
		ProfileType models.ProfileType `json:"profile_type"`
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

	user, err := h.users.Create(body.FirstName, body.LastName, body.Email, body.Password, body.ProfileType)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error creating user")
		return
	}
	user.IsVerified = true
	if err := h.users.Update(user); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	ident := middleware.IdentityFromCtx(r.Context())
	sideEffect("audit create_user", func() error {
		_, err := h.actions.Record(&ident.ID, models.ActionRefs{}, "create_user",
			map[string]any{"email": user.Email, "createdUserId": user.ID})
		return err
	})

	writeJSON(w, http.StatusCreated, user)
}

// Update handles PUT /users/{userId}. Admin-only; profile fields are partial.
func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	user, err := h.users.FindByID(id)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error updating user")
		return
	}
	if user == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Error updating user")
		return
	}
	var body struct {
		FirstName   *string             `json:"first_name"`
		LastName    *string             `json:"last_name"`
		Email       *string             `json:"email"`
		ProfileType *models.ProfileType `json:"profile_type"`
		IsVerified  *bool               `json:"is_verified"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Error updating user")
		return
	}

	if body.FirstName != nil {
		user.FirstName = *body.FirstName
	}
	if body.LastName != nil {
		user.LastName = *body.LastName
	}
	if body.Email != nil {
		user.Email = strings.TrimSpace(strings.ToLower(*body.Email))
	}
	if body.ProfileType != nil {
		user.ProfileType = *body.ProfileType
	}
	if body.IsVerified != nil {
		user.IsVerified = *body.IsVerified
	}

	if err := h.users.Update(user); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error updating user")
		return
	}

	ident := middleware.IdentityFromCtx(r.Context())
	var updateFields map[string]any
	json.Unmarshal(raw, &updateFields)
	sideEffect("audit update_user", func() error {
		_, err := h.actions.Record(&ident.ID, models.ActionRefs{}, "update_user",
			map[string]any{"updatedUserId": user.ID, "updateFields": updateFields})
		return err
	})

	writeJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /users/{userId}. Admin-only. Templates the account
// owned are kept; the moderation queue shows them under "Unknown user".
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	user, err := h.users.FindByID(id)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error deleting user")
		return
	}
	if user == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	if _, err := h.users.Delete(id); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error deleting user")
		return
	}

	ident := middleware.IdentityFromCtx(r.Context())
	sideEffect("audit delete_user", func() error {
		_, err := h.actions.Record(&ident.ID, models.ActionRefs{}, "delete_user",
			map[string]any{"deletedUserId": id, "deletedUserEmail": user.Email})
		return err
	})

	writeMessage(w, http.StatusOK, "User deleted successfully")
}
