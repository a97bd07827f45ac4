// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package token

import (
	"testing"
	"time"

	"pagesmith/internal/models"
)

func testManager() *Manager {
	return NewManager("test-secret", time.Hour)
}

func testAccount() *models.User {
	return &models.User{ID: 42, Email: "user@test.local", ProfileType: models.ProfileRegistered}
}

func TestIssueAndParse(t *testing.T) {
	m := testManager()
	u := testAccount()

	tok, err := m.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("uid: got %d, want 42", claims.UserID)
	}
	if claims.Email != "user@test.local" {
		t.Errorf("email: got %q", claims.Email)
	}
	if claims.Role != models.ProfileRegistered {
		t.Errorf("role: got %q", claims.Role)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, _ := testManager().Issue(testAccount())

	other := NewManager("other-secret", time.Hour)
	if _, err := other.Parse(tok); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)
	tok, _ := m.Issue(testAccount())

	if _, err := m.Parse(tok); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	m := testManager()
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Parse(tok); err != ErrInvalidToken {
			t.Errorf("Parse(%q): expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestVerificationTokenRoundTrip(t *testing.T) {
	m := testManager()
	u := testAccount()

	tok, err := m.IssueVerification(u)
	if err != nil {
		t.Fatalf("IssueVerification: %v", err)
	}

	claims, err := m.ParseVerification(tok)
	if err != nil {
		t.Fatalf("ParseVerification: %v", err)
	}
	if claims.UserID != u.ID || claims.Email != u.Email {
		t.Errorf("claims: %+v", claims)
	}
}

func TestPurposeSeparation(t *testing.T) {
	m := testManager()
	u := testAccount()

	session, _ := m.Issue(u)
	verify, _ := m.IssueVerification(u)

	// A verification token must not work as a session credential.
	if _, err := m.Parse(verify); err != ErrInvalidToken {
		t.Errorf("Parse(verification token): expected ErrInvalidToken, got %v", err)
	}
	// And vice versa.
	if _, err := m.ParseVerification(session); err != ErrInvalidToken {
		t.Errorf("ParseVerification(session token): expected ErrInvalidToken, got %v", err)
	}
}
