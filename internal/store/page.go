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

// PageStore handles the legacy standalone page aggregate. Sections and their
// embedded functions and data entries live in one JSONB column; every nested
// mutation is a read-modify-write of the whole document, so the last write
// wins when two editors race.
type PageStore struct {
	db *sql.DB
}

// NewPageStore creates a new PageStore with the given database connection.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

func scanPage(row interface{ Scan(...any) error }) (*models.Page, error) {
	p := &models.Page{}
	var id string
	var templateID sql.NullString
	var sectionsJSON []byte
	if err := row.Scan(&id, &p.PageName, &templateID, &sectionsJSON); err != nil {
		return nil, err
	}
	p.ID = models.DocID(id)
	if templateID.Valid {
		tid := models.DocID(templateID.String)
		p.TemplateID = &tid
	}
	if err := json.Unmarshal(sectionsJSON, &p.Sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	return p, nil
}

func nullDocID(id *models.DocID) any {
	if id == nil {
		return nil
	}
	return string(*id)
}

// Create inserts a new page document, generating its id.
func (s *PageStore) Create(p *models.Page) error {
	if p.ID == "" {
		p.ID = models.NewDocID()
	}
	if p.Sections == nil {
		p.Sections = []models.Section{}
	}
	sectionsJSON, err := json.Marshal(p.Sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO pages (id, page_name, template_id, sections)
		VALUES ($1, $2, $3, $4)
	`, string(p.ID), p.PageName, nullDocID(p.TemplateID), sectionsJSON)
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	return nil
}

// FindByID retrieves a page by document id. Returns nil if not found.
func (s *PageStore) FindByID(id models.DocID) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRow(`
		SELECT id, page_name, template_id, sections FROM pages WHERE id = $1
	`, string(id)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by id: %w", err)
	}
	return p, nil
}

// List returns all pages.
func (s *PageStore) List() ([]models.Page, error) {
	rows, err := s.db.Query(`SELECT id, page_name, template_id, sections FROM pages`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, *p)
	}
	return pages, rows.Err()
}

// Update persists the whole page document, sections included.
func (s *PageStore) Update(p *models.Page) error {
	sectionsJSON, err := json.Marshal(p.Sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE pages SET page_name = $1, template_id = $2, sections = $3 WHERE id = $4
	`, p.PageName, nullDocID(p.TemplateID), sectionsJSON, string(p.ID))
	if err != nil {
		return fmt.Errorf("update page: %w", err)
	}
	return nil
}

// Delete removes a page by id. Returns false when no row was deleted.
func (s *PageStore) Delete(id models.DocID) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM pages WHERE id = $1`, string(id))
	if err != nil {
		return false, fmt.Errorf("delete page: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}
