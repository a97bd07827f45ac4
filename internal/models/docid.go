// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// DocID identifies a document-store entity (templates, pages, actions and
// their embedded children). It is a 24-character lowercase hex string.
type DocID string

// ErrInvalidDocID is returned when an identifier does not have the
// 24-character hex shape. Callers must treat this as a validation failure,
// not as "not found".
var ErrInvalidDocID = errors.New("invalid document id format")

// NewDocID generates a fresh random document identifier.
func NewDocID() DocID {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(fmt.Sprintf("docid: %v", err))
	}
	return DocID(hex.EncodeToString(b[:]))
}

// ParseDocID validates the shape of a raw identifier string.
func ParseDocID(s string) (DocID, error) {
	if len(s) != 24 {
		return "", ErrInvalidDocID
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return "", ErrInvalidDocID
		}
	}
	return DocID(s), nil
}

// String returns the raw hex form.
func (id DocID) String() string { return string(id) }
