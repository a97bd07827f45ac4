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

// TemplateStore handles the template aggregate. The review metadata and the
// embedded pages array are written together with the rest of the row, so a
// template is always persisted as one atomic replace.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateColumns = `id, user_id, template_name, version, publish_status,
	denied_reason_code, denied_reason_text, denied_at, reviewed_by, reviewed_at,
	pages, created_at, updated_at`

func scanTemplate(row interface{ Scan(...any) error }) (*models.Template, error) {
	t := &models.Template{}
	var id string
	var pagesJSON []byte
	err := row.Scan(
		&id, &t.UserID, &t.TemplateName, &t.Version, &t.PublishStatus,
		&t.DeniedReasonCode, &t.DeniedReasonText, &t.DeniedAt,
		&t.ReviewedBy, &t.ReviewedAt,
		&pagesJSON, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.ID = models.DocID(id)
	if err := json.Unmarshal(pagesJSON, &t.Pages); err != nil {
		return nil, fmt.Errorf("decode pages: %w", err)
	}
	return t, nil
}

// Create inserts a new template. A fresh document id is generated and the
// status defaults to Draft when the caller left it empty.
func (s *TemplateStore) Create(t *models.Template) error {
	if t.ID == "" {
		t.ID = models.NewDocID()
	}
	if t.PublishStatus == "" {
		t.PublishStatus = models.PublishStatusDraft
	}
	if t.Version == 0 {
		t.Version = 1
	}
	if t.Pages == nil {
		t.Pages = []models.PageState{}
	}
	pagesJSON, err := json.Marshal(t.Pages)
	if err != nil {
		return fmt.Errorf("encode pages: %w", err)
	}

	err = s.db.QueryRow(`
		INSERT INTO templates (id, user_id, template_name, version, publish_status,
			denied_reason_code, denied_reason_text, denied_at, reviewed_by, reviewed_at, pages)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`, string(t.ID), t.UserID, t.TemplateName, t.Version, t.PublishStatus,
		t.DeniedReasonCode, t.DeniedReasonText, t.DeniedAt, t.ReviewedBy, t.ReviewedAt,
		pagesJSON,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

// FindByID retrieves a template by document id. Returns nil if not found.
func (s *TemplateStore) FindByID(id models.DocID) (*models.Template, error) {
	t, err := scanTemplate(s.db.QueryRow(`
		SELECT `+templateColumns+` FROM templates WHERE id = $1
	`, string(id)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// ListByUser returns one owner's templates, most recently updated first.
func (s *TemplateStore) ListByUser(userID int64) ([]models.Template, error) {
	return s.queryTemplates(`
		SELECT `+templateColumns+` FROM templates
		WHERE user_id = $1 ORDER BY updated_at DESC
	`, userID)
}

// ListAll returns every template, most recently updated first. Admin-only
// callers use this.
func (s *TemplateStore) ListAll() ([]models.Template, error) {
	return s.queryTemplates(`
		SELECT ` + templateColumns + ` FROM templates ORDER BY updated_at DESC
	`)
}

// ListByStatus returns templates in the given publish status, ordered by
// updated_at then created_at descending. Feeds the moderation queue facets.
func (s *TemplateStore) ListByStatus(status models.PublishStatus) ([]models.Template, error) {
	return s.queryTemplates(`
		SELECT `+templateColumns+` FROM templates
		WHERE publish_status = $1
		ORDER BY updated_at DESC, created_at DESC
	`, status)
}

func (s *TemplateStore) queryTemplates(query string, args ...any) ([]models.Template, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// Update replaces every mutable field of the template row, including the
// pages array and review metadata, and bumps updated_at. The refreshed
// timestamp is written back onto t.
func (s *TemplateStore) Update(t *models.Template) error {
	pagesJSON, err := json.Marshal(t.Pages)
	if err != nil {
		return fmt.Errorf("encode pages: %w", err)
	}

	err = s.db.QueryRow(`
		UPDATE templates SET
			template_name = $1, version = $2, publish_status = $3,
			denied_reason_code = $4, denied_reason_text = $5, denied_at = $6,
			reviewed_by = $7, reviewed_at = $8, pages = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at
	`, t.TemplateName, t.Version, t.PublishStatus,
		t.DeniedReasonCode, t.DeniedReasonText, t.DeniedAt,
		t.ReviewedBy, t.ReviewedAt, pagesJSON, string(t.ID),
	).Scan(&t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

// Delete removes a template by id. Returns false when no row was deleted.
func (s *TemplateStore) Delete(id models.DocID) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM templates WHERE id = $1`, string(id))
	if err != nil {
		return false, fmt.Errorf("delete template: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// ListPublished returns summaries of published templates, optionally
// filtered by a case-insensitive substring match on the name. Page content
// is deliberately not selected — the library view only browses.
func (s *TemplateStore) ListPublished(search string) ([]models.TemplateSummary, error) {
	query := `
		SELECT id, template_name, version, user_id, publish_status, created_at, updated_at
		FROM templates
		WHERE publish_status = 'Published'`
	args := []any{}
	if search != "" {
		query += ` AND template_name ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}
	query += ` ORDER BY updated_at DESC, created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list published templates: %w", err)
	}
	defer rows.Close()

	summaries := []models.TemplateSummary{}
	for rows.Next() {
		var ts models.TemplateSummary
		var id string
		if err := rows.Scan(&id, &ts.TemplateName, &ts.Version, &ts.UserID,
			&ts.PublishStatus, &ts.CreatedAt, &ts.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan template summary: %w", err)
		}
		ts.ID = models.DocID(id)
		summaries = append(summaries, ts)
	}
	return summaries, rows.Err()
}
