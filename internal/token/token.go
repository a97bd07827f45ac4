// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package token issues and verifies the signed bearer credentials carried by
// API requests, plus the short-lived tokens used for email verification.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pagesmith/internal/models"
)

// purposeVerify marks email-verification tokens so they cannot be replayed
// as session credentials.
const purposeVerify = "email_verify"

// verificationTTL is how long an email-verification link stays valid.
const verificationTTL = 24 * time.Hour

// ErrInvalidToken is returned for malformed, forged, or expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the identity payload embedded in session tokens.
type Claims struct {
	UserID  int64              `json:"uid"`
	Email   string             `json:"email"`
	Role    models.ProfileType `json:"role"`
	Purpose string             `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and parses HS256 tokens with a shared secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a Manager. ttl applies to session tokens.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a session token carrying the user's id, email and role.
func (m *Manager) Issue(u *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.ProfileType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies a session token and returns its claims. Verification
// tokens are rejected here.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueVerification signs the token embedded in a verification email link.
func (m *Manager) IssueVerification(u *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:  u.ID,
		Email:   u.Email,
		Purpose: purposeVerify,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(verificationTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseVerification verifies an email-verification token.
func (m *Manager) ParseVerification(tokenString string) (*Claims, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purposeVerify {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
