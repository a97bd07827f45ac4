// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// PublishStatus is the lifecycle state governing a template's visibility in
// the shared library.
//
//	Draft --(request-publish)--> Requested
//	Requested --(admin approve)--> Published
//	Requested --(admin deny)--> Denied
//	Denied --(request-publish)--> Requested
//	Published --(admin deny)--> Denied
type PublishStatus string

const (
	PublishStatusDraft     PublishStatus = "Draft"
	PublishStatusRequested PublishStatus = "Requested"
	PublishStatusPublished PublishStatus = "Published"
	PublishStatusDenied    PublishStatus = "Denied"
)

// Valid reports whether s is one of the four known statuses.
func (s PublishStatus) Valid() bool {
	switch s {
	case PublishStatusDraft, PublishStatusRequested, PublishStatusPublished, PublishStatusDenied:
		return true
	}
	return false
}

// MaxPagesPerTemplate caps the embedded pages array. The builder UI stops at
// ten pages; the server enforces the same limit on create and update.
const MaxPagesPerTemplate = 10

// PageStyle holds the per-page canvas settings chosen in the builder.
type PageStyle struct {
	BackgroundColor string  `json:"backgroundColor"`
	Height          string  `json:"height"`
	GridEnabled     bool    `json:"gridEnabled"`
	Width           *string `json:"width,omitempty"`
}

// PageState is one page snapshot embedded inside a template: raw HTML content
// plus its style. It is a value type, distinct from the standalone Page
// aggregate.
type PageState struct {
	Name    string    `json:"name"`
	Content string    `json:"content"`
	Style   PageStyle `json:"style"`
}

// Template is the primary document-store aggregate: a named, versioned set of
// pages owned by a single account and moderated through the publish workflow.
// UserID references the relational users table — an application-level foreign
// key, not a database one.
type Template struct {
	ID           DocID         `json:"_id"`
	UserID       int64         `json:"userId"`
	TemplateName string        `json:"template_name"`
	Version      int           `json:"version"`

	PublishStatus PublishStatus `json:"publish_status"`

	// Review metadata, set on deny and cleared on resubmission/approve.
	DeniedReasonCode *string    `json:"denied_reason_code"`
	DeniedReasonText *string    `json:"denied_reason_text"`
	DeniedAt         *time.Time `json:"denied_at"`
	ReviewedBy       *int64     `json:"reviewed_by"`
	ReviewedAt       *time.Time `json:"reviewed_at"`

	Pages []PageState `json:"pages"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy reports whether the template belongs to the given account.
func (t *Template) OwnedBy(userID int64) bool {
	return t.UserID == userID
}

// ClearReview nulls every denial and review field. Called when the owner
// resubmits so the next review starts fresh.
func (t *Template) ClearReview() {
	t.DeniedReasonCode = nil
	t.DeniedReasonText = nil
	t.DeniedAt = nil
	t.ReviewedBy = nil
	t.ReviewedAt = nil
}

// ClonePages returns an independent deep copy of a pages array. Width is the
// only pointer field inside a PageState, so it is the only thing that needs
// re-allocating.
func ClonePages(pages []PageState) []PageState {
	if pages == nil {
		return nil
	}
	out := make([]PageState, len(pages))
	copy(out, pages)
	for i := range out {
		if w := out[i].Style.Width; w != nil {
			cloned := *w
			out[i].Style.Width = &cloned
		}
	}
	return out
}

// TemplateSummary is the projection returned by the published library listing:
// no page content, just enough to browse.
type TemplateSummary struct {
	ID            DocID         `json:"_id"`
	TemplateName  string        `json:"template_name"`
	Version       int           `json:"version"`
	UserID        int64         `json:"userId"`
	PublishStatus PublishStatus `json:"publish_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
