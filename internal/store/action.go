// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"pagesmith/internal/models"
)

// ActionStore is the append-only audit sink. Rows are inserted by every
// mutating operation and never updated or deleted.
type ActionStore struct {
	db *sql.DB
}

// NewActionStore creates a new ActionStore with the given database connection.
func NewActionStore(db *sql.DB) *ActionStore {
	return &ActionStore{db: db}
}

// Record appends one audit entry. Callers treat this as a best-effort side
// effect: a failure here must never fail the primary operation.
func (s *ActionStore) Record(userID *int64, refs models.ActionRefs, action string, payload map[string]any) (*models.Action, error) {
	a := &models.Action{
		ID:         models.NewDocID(),
		UserID:     userID,
		PageID:     refs.PageID,
		SectionID:  refs.SectionID,
		EntryID:    refs.EntryID,
		TemplateID: refs.TemplateID,
		Action:     action,
		Payload:    payload,
	}

	var payloadJSON []byte
	if payload != nil {
		var err error
		payloadJSON, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
	}

	err := s.db.QueryRow(`
		INSERT INTO actions (id, user_id, page_id, section_id, entry_id, template_id, action, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING timestamp
	`, string(a.ID), a.UserID, nullDocID(a.PageID), nullDocID(a.SectionID),
		nullDocID(a.EntryID), nullDocID(a.TemplateID), a.Action, payloadJSON,
	).Scan(&a.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("record action: %w", err)
	}
	return a, nil
}

func scanAction(row interface{ Scan(...any) error }) (*models.Action, error) {
	a := &models.Action{}
	var id string
	var pageID, sectionID, entryID, templateID sql.NullString
	var payloadJSON []byte
	err := row.Scan(&id, &a.UserID, &pageID, &sectionID, &entryID, &templateID,
		&a.Action, &payloadJSON, &a.Timestamp)
	if err != nil {
		return nil, err
	}
	a.ID = models.DocID(id)
	assign := func(dst **models.DocID, src sql.NullString) {
		if src.Valid {
			v := models.DocID(src.String)
			*dst = &v
		}
	}
	assign(&a.PageID, pageID)
	assign(&a.SectionID, sectionID)
	assign(&a.EntryID, entryID)
	assign(&a.TemplateID, templateID)
	if payloadJSON != nil {
		if err := json.Unmarshal(payloadJSON, &a.Payload); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
	}
	return a, nil
}

// ListAll returns every audit entry, newest first.
func (s *ActionStore) ListAll() ([]models.Action, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, page_id, section_id, entry_id, template_id, action, payload, timestamp
		FROM actions ORDER BY timestamp DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var actions []models.Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		actions = append(actions, *a)
	}
	return actions, rows.Err()
}

// FindByID retrieves one audit entry. Returns nil if not found.
func (s *ActionStore) FindByID(id models.DocID) (*models.Action, error) {
	a, err := scanAction(s.db.QueryRow(`
		SELECT id, user_id, page_id, section_id, entry_id, template_id, action, payload, timestamp
		FROM actions WHERE id = $1
	`, string(id)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find action by id: %w", err)
	}
	return a, nil
}
