// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"pagesmith/internal/cache"
	"pagesmith/internal/middleware"
	"pagesmith/internal/models"
	"pagesmith/internal/preview"
	"pagesmith/internal/store"
)

// Templates serves the template aggregate: CRUD, page previews, the publish
// request, and the shared published library.
type Templates struct {
	templates *store.TemplateStore
	users     *store.UserStore
	actions   *store.ActionStore
	published *cache.PublishedCache // nil disables caching
}

// NewTemplates creates the template handler group with its dependencies.
func NewTemplates(templates *store.TemplateStore, users *store.UserStore, actions *store.ActionStore, published *cache.PublishedCache) *Templates {
	return &Templates{templates: templates, users: users, actions: actions, published: published}
}

// pagesViewResponse is the body of both pages-view endpoints.
type pagesViewResponse struct {
	TemplateID models.DocID       `json:"template_id"`
	Pages      []preview.PageView `json:"pages"`
}

// audit appends an audit entry as a best-effort side effect.
func (h *Templates) audit(actorID int64, templateID models.DocID, action string, payload map[string]any) {
	sideEffect("audit "+action, func() error {
		_, err := h.actions.Record(&actorID, models.ActionRefs{TemplateID: &templateID}, action, payload)
		return err
	})
}

// loadOwned loads a template and runs the ownership check. It writes the
// error response itself and returns nil when the caller should stop.
func (h *Templates) loadOwned(w http.ResponseWriter, r *http.Request, ident *middleware.Identity) *models.Template {
	id, err := docIDParam(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid template ID format")
		return nil
	}

	t, err := h.templates.FindByID(id)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error retrieving template")
		return nil
	}
	if t == nil {
		writeMessage(w, http.StatusNotFound, "Template not found")
		return nil
	}

	if !ident.IsAdmin() && !t.OwnedBy(ident.ID) {
		writeMessage(w, http.StatusForbidden, "Forbidden")
		return nil
	}
	return t
}

// Create handles POST /templates. The new template belongs to the caller and
// starts as a Draft regardless of what the body claims.
func (h *Templates) Create(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())

	var body struct {
		TemplateName string             `json:"template_name"`
		Version      int                `json:"version"`
		Pages        []models.PageState `json:"pages"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Error creating template")
		return
	}
	if msg := validateTemplateName(body.TemplateName); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validatePages(body.Pages); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	t := &models.Template{
		UserID:        ident.ID,
		TemplateName:  strings.TrimSpace(body.TemplateName),
		Version:       body.Version,
		PublishStatus: models.PublishStatusDraft,
		Pages:         body.Pages,
	}
	if err := h.templates.Create(t); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error creating template")
		return
	}

	// Remember the user's most recent template. The account row lives in the
	// other store, so this is fire-and-forget.
	sideEffect("set last template id", func() error {
		return h.users.SetLastTemplateID(ident.ID, t.ID)
	})
	h.audit(ident.ID, t.ID, "create_template", map[string]any{"template_name": t.TemplateName})

	writeJSON(w, http.StatusCreated, t)
}

// List handles GET /templates. Admins see everything; everyone else sees
// only their own templates.
func (h *Templates) List(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())

	var (
		templates []models.Template
		err       error
	)
	if ident.IsAdmin() {
		templates, err = h.templates.ListAll()
	} else {
		templates, err = h.templates.ListByUser(ident.ID)
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error retrieving templates")
		return
	}
	if templates == nil {
		templates = []models.Template{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// Get handles GET /templates/{id}.
func (h *Templates) Get(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())
	t := h.loadOwned(w, r, ident)
	if t == nil {
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Update handles PUT /templates/{id}. Fields present in the body replace
// the stored ones; the raw body is recorded in the audit payload as the
// caller-supplied diff.
func (h *Templates) Update(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())
	t := h.loadOwned(w, r, ident)
	if t == nil {
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Error updating template")
		return
	}

	var body struct {
		TemplateName *string             `json:"template_name"`
		Version      *int                `json:"version"`
		Pages        *[]models.PageState `json:"pages"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Error updating template")
		return
	}

	if body.TemplateName != nil {
		if msg := validateTemplateName(*body.TemplateName); msg != "" {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}
		t.TemplateName = strings.TrimSpace(*body.TemplateName)
	}
	if body.Version != nil {
		t.Version = *body.Version
	}
	if body.Pages != nil {
		if msg := validatePages(*body.Pages); msg != "" {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}
		t.Pages = *body.Pages
	}

	if err := h.templates.Update(t); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error updating template")
		return
	}

	var updatedFields map[string]any
	json.Unmarshal(raw, &updatedFields)
	h.audit(ident.ID, t.ID, "update_template", map[string]any{
		"updatedTemplateId": string(t.ID),
		"updatedFields":     updatedFields,
	})

	// Edits to an already-published template change what the library serves.
	if t.PublishStatus == models.PublishStatusPublished {
		h.flushPublished(r)
	}

	writeJSON(w, http.StatusOK, t)
}

// Delete handles DELETE /templates/{id}.
func (h *Templates) Delete(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())
	t := h.loadOwned(w, r, ident)
	if t == nil {
		return
	}

	if _, err := h.templates.Delete(t.ID); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error deleting template")
		return
	}

	h.audit(ident.ID, t.ID, "delete_template", map[string]any{
		"deletedTemplateId":   string(t.ID),
		"deletedTemplateName": t.TemplateName,
	})
	if t.PublishStatus == models.PublishStatusPublished {
		h.flushPublished(r)
	}

	writeMessage(w, http.StatusOK, "Template deleted successfully")
}

// PagesView handles GET /templates/{id}/pages: each embedded page projected
// to a self-contained HTML document for the preview frame.
func (h *Templates) PagesView(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())
	t := h.loadOwned(w, r, ident)
	if t == nil {
		return
	}

	writeJSON(w, http.StatusOK, pagesViewResponse{
		TemplateID: t.ID,
		Pages:      preview.BuildPageViews(t.Pages),
	})
}

// RequestPublish handles PATCH /templates/{id}/request-publish. Valid from
// any status: Drafts enter the queue, Denied templates are resubmitted with
// their review metadata wiped, and repeating the request is a no-op.
func (h *Templates) RequestPublish(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())
	t := h.loadOwned(w, r, ident)
	if t == nil {
		return
	}

	wasPublished := t.PublishStatus == models.PublishStatusPublished

	t.PublishStatus = models.PublishStatusRequested
	t.ClearReview()

	if err := h.templates.Update(t); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error submitting template for publish")
		return
	}
	if wasPublished {
		h.flushPublished(r)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Template submitted for publishing approval.",
		"template": t,
	})
}

// ListPublished handles GET /templates/published. The published library is
// shared: any authenticated user may browse it, optionally filtering by a
// case-insensitive name substring. Responses are cached in Valkey.
func (h *Templates) ListPublished(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	cacheKey := cache.ListKey(search)

	if h.published != nil {
		if body, ok := h.published.Get(r.Context(), cacheKey); ok {
			writeRawJSON(w, http.StatusOK, body)
			return
		}
	}

	summaries, err := h.templates.ListPublished(search)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error retrieving published templates")
		return
	}

	body, err := json.Marshal(summaries)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error retrieving published templates")
		return
	}
	if h.published != nil {
		h.published.Set(r.Context(), cacheKey, body)
	}
	writeRawJSON(w, http.StatusOK, body)
}

// PublishedPagesView handles GET /templates/published/{id}/pages. No
// ownership check — but only Published templates are visible here.
func (h *Templates) PublishedPagesView(w http.ResponseWriter, r *http.Request) {
	id, err := docIDParam(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	cacheKey := cache.PagesKey(string(id))
	if h.published != nil {
		if body, ok := h.published.Get(r.Context(), cacheKey); ok {
			writeRawJSON(w, http.StatusOK, body)
			return
		}
	}

	t, err := h.templates.FindByID(id)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error retrieving published template pages")
		return
	}
	if t == nil {
		writeMessage(w, http.StatusNotFound, "Template not found")
		return
	}
	if t.PublishStatus != models.PublishStatusPublished {
		writeMessage(w, http.StatusForbidden, "Template is not published")
		return
	}

	body, err := json.Marshal(pagesViewResponse{
		TemplateID: t.ID,
		Pages:      preview.BuildPageViews(t.Pages),
	})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error retrieving published template pages")
		return
	}
	if h.published != nil {
		h.published.Set(r.Context(), cacheKey, body)
	}
	writeRawJSON(w, http.StatusOK, body)
}

// CopyPublished handles POST /templates/published/{id}/copy: clones a
// published template into the caller's account as a fresh Draft.
func (h *Templates) CopyPublished(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())

	id, err := docIDParam(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	source, err := h.templates.FindByID(id)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error copying published template")
		return
	}
	if source == nil {
		writeMessage(w, http.StatusNotFound, "Template not found")
		return
	}
	if source.PublishStatus != models.PublishStatusPublished {
		writeMessage(w, http.StatusForbidden, "Template is not published")
		return
	}

	clone := &models.Template{
		UserID:        ident.ID,
		TemplateName:  source.TemplateName + " (Copy)",
		Version:       1,
		PublishStatus: models.PublishStatusDraft,
		Pages:         models.ClonePages(source.Pages),
	}
	if err := h.templates.Create(clone); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error copying published template")
		return
	}

	h.audit(ident.ID, clone.ID, "copy_published_template", map[string]any{
		"sourceTemplateId": string(source.ID),
		"template_name":    clone.TemplateName,
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Template copied to your account.",
		"template": clone,
	})
}

func (h *Templates) flushPublished(r *http.Request) {
	if h.published != nil {
		h.published.Flush(r.Context())
	}
}
