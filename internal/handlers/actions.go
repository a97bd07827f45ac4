// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"pagesmith/internal/models"
	"pagesmith/internal/store"
)

// Actions serves read access to the append-only audit log. Admin-only.
type Actions struct {
	actions *store.ActionStore
}

// NewActions creates the audit log handler group.
func NewActions(actions *store.ActionStore) *Actions {
	return &Actions{actions: actions}
}

// List handles GET /actions, newest entries first.
func (h *Actions) List(w http.ResponseWriter, r *http.Request) {
	actions, err := h.actions.ListAll()
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error retrieving actions")
		return
	}
	if actions == nil {
		actions = []models.Action{}
	}
	writeJSON(w, http.StatusOK, actions)
}

// Get handles GET /actions/{actionId}.
func (h *Actions) Get(w http.ResponseWriter, r *http.Request) {
	id, err := docIDParam(r, "actionId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid action ID format")
		return
	}
	action, err := h.actions.FindByID(id)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error retrieving action")
		return
	}
	if action == nil {
		writeMessage(w, http.StatusNotFound, "Action not found")
		return
	}
	writeJSON(w, http.StatusOK, action)
}
