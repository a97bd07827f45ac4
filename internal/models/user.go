// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures persisted by the two stores:
// the relational account table and the JSONB document tables.
package models

import (
	"strings"
	"time"
)

// ProfileType represents a user's permission level in the system.
type ProfileType string

const (
	ProfileAdmin      ProfileType = "Admin"
	ProfileRegistered ProfileType = "Registered"
	ProfileGuest      ProfileType = "Guest"

	// ProfileBanned is a moderation facet, not a state users pass through
	// normally. Admins set it by hand; the queue filters on it.
	ProfileBanned ProfileType = "Banned"
)

// User represents an account row in the relational store. Templates in the
// document store reference it by numeric ID.
type User struct {
	ID             int64       `json:"id"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	Email          string      `json:"email"`
	ProfileType    ProfileType `json:"profile_type"`
	PasswordHash   string      `json:"-"` // Never serialize the hash
	PasswordSalt   *string     `json:"-"`
	IsVerified     bool        `json:"is_verified"`
	LastTemplateID *DocID      `json:"last_template_id,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// IsAdmin returns true if the user has the Admin profile type.
func (u *User) IsAdmin() bool {
	return u.ProfileType == ProfileAdmin
}

// DisplayName returns "First Last", falling back to the email address when
// both name fields are blank.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}
