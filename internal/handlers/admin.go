// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"
	"time"

	"pagesmith/internal/cache"
	"pagesmith/internal/middleware"
	"pagesmith/internal/models"
	"pagesmith/internal/store"
)

// Admin serves the moderation queue and the approve/reject decisions. Every
// route in this group sits behind the admin middleware.
type Admin struct {
	templates *store.TemplateStore
	users     *store.UserStore
	actions   *store.ActionStore
	published *cache.PublishedCache
}

// NewAdmin creates the admin handler group with its dependencies.
func NewAdmin(templates *store.TemplateStore, users *store.UserStore, actions *store.ActionStore, published *cache.PublishedCache) *Admin {
	return &Admin{templates: templates, users: users, actions: actions, published: published}
}

// queueRow is one line of the moderation queue. Every row carries all five
// keys: user facets send template_name as "" and template_mongo_id as null so
// the dashboard renders both facet kinds through one table.
type queueRow struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	TemplateName string        `json:"template_name"`
	Status       string        `json:"status"`
	TemplateID   *models.DocID `json:"template_mongo_id"`
}

// Queue handles GET /admin/queue?filter=... and returns the selected facet of
// the moderation queue. The default facet is all_users.
func (h *Admin) Queue(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = "all_users"
	}

	switch filter {
	case "all_users":
		users, err := h.users.List()
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Error loading moderation queue")
			return
		}
		writeJSON(w, http.StatusOK, userRows(users, ""))
	case "banned_users":
		users, err := h.users.ListByProfileType(models.ProfileBanned)
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Error loading moderation queue")
			return
		}
		writeJSON(w, http.StatusOK, userRows(users, "banned"))
	case "publish_pending":
		h.templateRows(w, models.PublishStatusRequested)
	case "publish_approved":
		h.templateRows(w, models.PublishStatusPublished)
	case "publish_denied":
		h.templateRows(w, models.PublishStatusDenied)
	default:
		writeMessage(w, http.StatusBadRequest, "Invalid filter")
	}
}

// userRows maps accounts to queue rows. The all_users facet reports the
// profile type verbatim; banned_users pins the status to "banned".
func userRows(users []models.User, status string) []queueRow {
	rows := []queueRow{}
	for _, u := range users {
		s := status
		if s == "" {
			s = string(u.ProfileType)
		}
		rows = append(rows, queueRow{
			ID:     u.ID,
			Name:   u.DisplayName(),
			Status: s,
		})
	}
	return rows
}

// templateRows builds queue rows for a publish-status facet, resolving owner
// names in one batched lookup. Owners deleted from the relational store show
// as "Unknown user" rather than dropping the row.
func (h *Admin) templateRows(w http.ResponseWriter, status models.PublishStatus) {
	templates, err := h.templates.ListByStatus(status)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error loading moderation queue")
		return
	}

	ids := make([]int64, 0, len(templates))
	seen := map[int64]bool{}
	for _, t := range templates {
		if !seen[t.UserID] {
			seen[t.UserID] = true
			ids = append(ids, t.UserID)
		}
	}
	owners, err := h.users.FindByIDs(ids)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error loading moderation queue")
		return
	}

	rows := []queueRow{}
	for _, t := range templates {
		name := "Unknown user"
		if owner, ok := owners[t.UserID]; ok {
			name = owner.DisplayName()
		}
		id := t.ID
		rows = append(rows, queueRow{
			ID:           t.UserID,
			Name:         name,
			TemplateName: t.TemplateName,
			Status:       strings.ToLower(string(t.PublishStatus)),
			TemplateID:   &id,
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

// DenialReasons handles GET /admin/denial-reasons and returns the fixed
// reason catalog for the deny dialog.
func (h *Admin) DenialReasons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.DenialReasons)
}

// Approve handles PATCH /admin/templates/{templateId}/approve. Approval is
// valid from any state and wipes previous denial metadata.
func (h *Admin) Approve(w http.ResponseWriter, r *http.Request) {
	tmpl := h.loadTemplate(w, r)
	if tmpl == nil {
		return
	}
	identity := middleware.IdentityFromCtx(r.Context())

	now := time.Now().UTC()
	tmpl.PublishStatus = models.PublishStatusPublished
	tmpl.DeniedReasonCode = nil
	tmpl.DeniedReasonText = nil
	tmpl.DeniedAt = nil
	tmpl.ReviewedBy = &identity.ID
	tmpl.ReviewedAt = &now

	if err := h.templates.Update(tmpl); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error approving template")
		return
	}

	sideEffect("audit approve_template", func() error {
		_, err := h.actions.Record(&identity.ID,
			models.ActionRefs{TemplateID: &tmpl.ID}, "approve_template",
			map[string]any{"template_name": tmpl.TemplateName, "ownerUserId": tmpl.UserID})
		return err
	})
	h.flushPublished(r)

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Template approved and published.",
		"template": tmpl,
	})
}

// Reject handles PATCH /admin/templates/{templateId}/reject. The reason code
// must come from the catalog and the stored text is the catalog text; only
// OTHER accepts a custom reason_text.
func (h *Admin) Reject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ReasonCode string `json:"reason_code"`
		ReasonText string `json:"reason_text"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid reason_code")
		return
	}
	reason, ok := models.DenialReasonByCode(body.ReasonCode)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid reason_code")
		return
	}

	tmpl := h.loadTemplate(w, r)
	if tmpl == nil {
		return
	}
	identity := middleware.IdentityFromCtx(r.Context())

	text := reason.Text
	if reason.Code == "OTHER" && strings.TrimSpace(body.ReasonText) != "" {
		text = body.ReasonText
	}

	now := time.Now().UTC()
	tmpl.PublishStatus = models.PublishStatusDenied
	tmpl.DeniedReasonCode = &reason.Code
	tmpl.DeniedReasonText = &text
	tmpl.DeniedAt = &now
	tmpl.ReviewedBy = &identity.ID
	tmpl.ReviewedAt = &now

	if err := h.templates.Update(tmpl); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error denying template")
		return
	}

	sideEffect("audit deny_template", func() error {
		_, err := h.actions.Record(&identity.ID,
			models.ActionRefs{TemplateID: &tmpl.ID}, "deny_template",
			map[string]any{
				"template_name": tmpl.TemplateName,
				"ownerUserId":   tmpl.UserID,
				"reason_code":   reason.Code,
			})
		return err
	})
	h.flushPublished(r)

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Template denied.",
		"template": tmpl,
	})
}

func (h *Admin) loadTemplate(w http.ResponseWriter, r *http.Request) *models.Template {
	id, err := docIDParam(r, "templateId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid template ID format")
		return nil
	}
	tmpl, err := h.templates.FindByID(id)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error retrieving template")
		return nil
	}
	if tmpl == nil {
		writeMessage(w, http.StatusNotFound, "Template not found")
		return nil
	}
	return tmpl
}

func (h *Admin) flushPublished(r *http.Request) {
	if h.published == nil {
		return
	}
	h.published.Flush(r.Context())
}
