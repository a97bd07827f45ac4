// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Action is one append-only audit record: who did what to which entity and
// when. The core only ever inserts and reads actions, never updates them.
type Action struct {
	ID         DocID          `json:"_id"`
	UserID     *int64         `json:"userId,omitempty"`
	PageID     *DocID         `json:"pageId,omitempty"`
	SectionID  *DocID         `json:"sectionId,omitempty"`
	EntryID    *DocID         `json:"entryId,omitempty"`
	TemplateID *DocID         `json:"templateId,omitempty"`
	Action     string         `json:"action"`
	Timestamp  time.Time      `json:"timestamp"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// ActionRefs carries the optional entity references attached to an audit
// record. Zero value means "no references".
type ActionRefs struct {
	PageID     *DocID
	SectionID  *DocID
	EntryID    *DocID
	TemplateID *DocID
}
