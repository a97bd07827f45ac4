// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"pagesmith/internal/models"
	"pagesmith/internal/store"
)

// Pages serves the legacy standalone page aggregate and its nested
// section/function/data-entry sub-resources.
//
// This surface carries no authentication or ownership checks — a gap
// inherited from the source system. It must only be exposed to trusted
// internal callers until ownership is linked through the template.
type Pages struct {
	pages   *store.PageStore
	actions *store.ActionStore
}

// NewPages creates the page handler group with its dependencies.
func NewPages(pages *store.PageStore, actions *store.ActionStore) *Pages {
	return &Pages{pages: pages, actions: actions}
}

// audit appends an audit entry as a best-effort side effect. The surface is
// unauthenticated, so entries carry no actor.
func (h *Pages) audit(refs models.ActionRefs, action string, payload map[string]any) {
	sideEffect("audit "+action, func() error {
		_, err := h.actions.Record(nil, refs, action, payload)
		return err
	})
}

// loadPage resolves the {pageId} URL parameter to a page document, writing
// the error response itself on failure.
func (h *Pages) loadPage(w http.ResponseWriter, r *http.Request, param string) *models.Page {
	id, err := docIDParam(r, param)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid page ID format")
		return nil
	}
	page, err := h.pages.FindByID(id)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error retrieving page")
		return nil
	}
	if page == nil {
		writeMessage(w, http.StatusNotFound, "Page not found")
		return nil
	}
	return page
}

// loadSection resolves {pageId} and {sectionId} down to the embedded section.
func (h *Pages) loadSection(w http.ResponseWriter, r *http.Request) (*models.Page, *models.Section) {
	page := h.loadPage(w, r, "pageId")
	if page == nil {
		return nil, nil
	}
	sectionID, err := docIDParam(r, "sectionId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid section ID format")
		return nil, nil
	}
	section := page.Section(sectionID)
	if section == nil {
		writeMessage(w, http.StatusNotFound, "Section not found")
		return nil, nil
	}
	return page, section
}

// normalizeSections assigns identities and sequence numbers to sections
// supplied inline on page create/update, mirroring what embedded-document
// stores do on save.
func normalizeSections(sections []models.Section) []models.Section {
	for i := range sections {
		s := &sections[i]
		if s.ID == "" {
			s.ID = models.NewDocID()
		}
		if s.SectionNumber == 0 {
			s.SectionNumber = i + 1
		}
		if s.DataEntries == nil {
			s.DataEntries = []models.DataEntry{}
		}
		if s.Functions == nil {
			s.Functions = []models.Function{}
		}
		for j := range s.DataEntries {
			if s.DataEntries[j].ID == "" {
				s.DataEntries[j].ID = models.NewDocID()
			}
		}
		for j := range s.Functions {
			if s.Functions[j].ID == "" {
				s.Functions[j].ID = models.NewDocID()
			}
		}
	}
	return sections
}

/* ---------------- Page CRUD ---------------- */

// Create handles POST /pages.
func (h *Pages) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PageName string           `json:"page_name"`
		Template *models.DocID    `json:"template"`
		Sections []models.Section `json:"sections"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Error creating page")
		return
	}
	if msg := validatePageName(body.PageName); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	page := &models.Page{
		PageName:   body.PageName,
		TemplateID: body.Template,
		Sections:   normalizeSections(body.Sections),
	}
	if err := h.pages.Create(page); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error creating page")
		return
	}

	h.audit(models.ActionRefs{PageID: &page.ID}, "create_page",
		map[string]any{"page_name": page.PageName})

	writeJSON(w, http.StatusCreated, page)
}

// List handles GET /pages.
func (h *Pages) List(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pages.List()
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error retrieving page")
		return
	}
	if pages == nil {
		pages = []models.Page{}
	}
	writeJSON(w, http.StatusOK, pages)
}

// Get handles GET /pages/{pageId}.
func (h *Pages) Get(w http.ResponseWriter, r *http.Request) {
	page := h.loadPage(w, r, "pageId")
	if page == nil {
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Update handles PUT /pages/{pageId}.
func (h *Pages) Update(w http.ResponseWriter, r *http.Request) {
	page := h.loadPage(w, r, "pageId")
	if page == nil {
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Error updating page")
		return
	}
	var body struct {
		PageName *string           `json:"page_name"`
		Template *models.DocID     `json:"template"`
		Sections *[]models.Section `json:"sections"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Error updating page")
		return
	}

	if body.PageName != nil {
		if msg := validatePageName(*body.PageName); msg != "" {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}
		page.PageName = *body.PageName
	}
	if body.Template != nil {
		page.TemplateID = body.Template
	}
	if body.Sections != nil {
		page.Sections = normalizeSections(*body.Sections)
	}

	if err := h.pages.Update(page); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error updating page")
		return
	}

	var updateFields map[string]any
	json.Unmarshal(raw, &updateFields)
	h.audit(models.ActionRefs{PageID: &page.ID}, "update_page",
		map[string]any{"updateFields": updateFields})

	writeJSON(w, http.StatusOK, page)
}

// Delete handles DELETE /pages/{pageId}.
func (h *Pages) Delete(w http.ResponseWriter, r *http.Request) {
	page := h.loadPage(w, r, "pageId")
	if page == nil {
		return
	}

	if _, err := h.pages.Delete(page.ID); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error deleting page")
		return
	}

	h.audit(models.ActionRefs{PageID: &page.ID}, "delete_page",
		map[string]any{"deletedPageName": page.PageName})

	writeMessage(w, http.StatusOK, "Page deleted successfully")
}

/* ---------------- Sections ---------------- */

// CreateSection handles POST /pages/{pageId}/sections. The section number is
// a creation-time hint: current count + 1, never re-packed after deletions.
func (h *Pages) CreateSection(w http.ResponseWriter, r *http.Request) {
	page := h.loadPage(w, r, "pageId")
	if page == nil {
		return
	}

	var body struct {
		SectionTitle string             `json:"section_title"`
		DataEntries  []models.DataEntry `json:"data_entries"`
		Functions    []models.Function  `json:"functions"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Error adding section")
		return
	}
	if msg := validateSectionTitle(body.SectionTitle); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	section := models.Section{
		ID:            models.NewDocID(),
		SectionTitle:  body.SectionTitle,
		SectionNumber: len(page.Sections) + 1,
		DataEntries:   body.DataEntries,
		Functions:     body.Functions,
	}
	if section.DataEntries == nil {
		section.DataEntries = []models.DataEntry{}
	}
	if section.Functions == nil {
		section.Functions = []models.Function{}
	}
	for i := range section.DataEntries {
		if section.DataEntries[i].ID == "" {
			section.DataEntries[i].ID = models.NewDocID()
		}
	}
	for i := range section.Functions {
		if section.Functions[i].ID == "" {
			section.Functions[i].ID = models.NewDocID()
		}
	}

	page.Sections = append(page.Sections, section)
	if err := h.pages.Update(page); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error adding section")
		return
	}

	h.audit(models.ActionRefs{PageID: &page.ID, SectionID: &section.ID}, "create_section",
		map[string]any{"section_title": section.SectionTitle})

	writeJSON(w, http.StatusCreated, section)
}

// ListSections handles GET /pages/{pageId}/sections.
func (h *Pages) ListSections(w http.ResponseWriter, r *http.Request) {
	page := h.loadPage(w, r, "pageId")
	if page == nil {
		return
	}
	writeJSON(w, http.StatusOK, page.Sections)
}

// GetSection handles GET /pages/{pageId}/sections/{sectionId}.
func (h *Pages) GetSection(w http.ResponseWriter, r *http.Request) {
	_, section := h.loadSection(w, r)
	if section == nil {
		return
	}
	writeJSON(w, http.StatusOK, section)
}

// UpdateSection handles PUT /pages/{pageId}/sections/{sectionId}.
func (h *Pages) UpdateSection(w http.ResponseWriter, r *http.Request) {
	page, section := h.loadSection(w, r)
	if section == nil {
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Error updating section")
		return
	}
	var body struct {
		SectionTitle *string             `json:"section_title"`
		DataEntries  *[]models.DataEntry `json:"data_entries"`
		Functions    *[]models.Function  `json:"functions"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Error updating section")
		return
	}

	if body.SectionTitle != nil {
		if msg := validateSectionTitle(*body.SectionTitle); msg != "" {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}
		section.SectionTitle = *body.SectionTitle
	}
	if body.DataEntries != nil {
		section.DataEntries = *body.DataEntries
		for i := range section.DataEntries {
			if section.DataEntries[i].ID == "" {
				section.DataEntries[i].ID = models.NewDocID()
			}
		}
	}
	if body.Functions != nil {
		section.Functions = *body.Functions
		for i := range section.Functions {
			if section.Functions[i].ID == "" {
				section.Functions[i].ID = models.NewDocID()
			}
		}
	}

	if err := h.pages.Update(page); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error updating section")
		return
	}

	var updateFields map[string]any
	json.Unmarshal(raw, &updateFields)
	h.audit(models.ActionRefs{PageID: &page.ID, SectionID: &section.ID}, "update_section",
		map[string]any{"updateFields": updateFields})

	writeJSON(w, http.StatusOK, section)
}

// DeleteSection handles DELETE /pages/{pageId}/sections/{sectionId}.
func (h *Pages) DeleteSection(w http.ResponseWriter, r *http.Request) {
	page, section := h.loadSection(w, r)
	if section == nil {
		return
	}

	sectionID := section.ID
	title := section.SectionTitle
	page.RemoveSection(sectionID)

	if err := h.pages.Update(page); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error deleting section")
		return
	}

	h.audit(models.ActionRefs{PageID: &page.ID, SectionID: &sectionID}, "delete_section",
		map[string]any{"deletedSectionTitle": title})

	writeMessage(w, http.StatusOK, "Section deleted successfully")
}

/* ---------------- Functions ---------------- */

// CreateFunction handles POST /pages/{pageId}/sections/{sectionId}/functions.
func (h *Pages) CreateFunction(w http.ResponseWriter, r *http.Request) {
	page, section := h.loadSection(w, r)
	if section == nil {
		return
	}

	var body struct {
		FunctionName string `json:"function_name"`
	}
	if err := decodeBody(r, &body); err != nil || body.FunctionName == "" {
		writeMessage(w, http.StatusBadRequest, "Error adding function")
		return
	}

	fn := models.Function{ID: models.NewDocID(), FunctionName: body.FunctionName}
	section.Functions = append(section.Functions, fn)

	if err := h.pages.Update(page); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error adding function")
		return
	}

	h.audit(models.ActionRefs{PageID: &page.ID, SectionID: &section.ID}, "create_function",
		map[string]any{"function_name": fn.FunctionName})

	writeJSON(w, http.StatusCreated, fn)
}

// ListFunctions handles GET /pages/{pageId}/sections/{sectionId}/functions.
func (h *Pages) ListFunctions(w http.ResponseWriter, r *http.Request) {
	_, section := h.loadSection(w, r)
	if section == nil {
		return
	}
	writeJSON(w, http.StatusOK, section.Functions)
}

// GetFunction handles GET .../functions/{functionId}.
func (h *Pages) GetFunction(w http.ResponseWriter, r *http.Request) {
	_, section := h.loadSection(w, r)
	if section == nil {
		return
	}
	fn := h.resolveFunction(w, r, section)
	if fn == nil {
		return
	}
	writeJSON(w, http.StatusOK, fn)
}

// UpdateFunction handles PUT .../functions/{functionId}.
func (h *Pages) UpdateFunction(w http.ResponseWriter, r *http.Request) {
	page, section := h.loadSection(w, r)
	if section == nil {
		return
	}
	fn := h.resolveFunction(w, r, section)
	if fn == nil {
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Error updating function")
		return
	}
	var body struct {
		FunctionName *string `json:"function_name"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Error updating function")
		return
	}
	if body.FunctionName != nil {
		fn.FunctionName = *body.FunctionName
	}

	if err := h.pages.Update(page); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error updating function")
		return
	}

	var updatedFields map[string]any
	json.Unmarshal(raw, &updatedFields)
	h.audit(models.ActionRefs{PageID: &page.ID, SectionID: &section.ID}, "update_function",
		map[string]any{"updatedFields": updatedFields})

	writeJSON(w, http.StatusOK, fn)
}

// DeleteFunction handles DELETE .../functions/{functionId}.
func (h *Pages) DeleteFunction(w http.ResponseWriter, r *http.Request) {
	page, section := h.loadSection(w, r)
	if section == nil {
		return
	}
	fn := h.resolveFunction(w, r, section)
	if fn == nil {
		return
	}

	name := fn.FunctionName
	section.RemoveFunction(fn.ID)

	if err := h.pages.Update(page); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error deleting function")
		return
	}

	h.audit(models.ActionRefs{PageID: &page.ID, SectionID: &section.ID}, "delete_function",
		map[string]any{"deletedFunctionName": name})

	writeMessage(w, http.StatusOK, "Function deleted successfully")
}

func (h *Pages) resolveFunction(w http.ResponseWriter, r *http.Request, section *models.Section) *models.Function {
	id, err := docIDParam(r, "functionId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid function ID format")
		return nil
	}
	fn := section.Function(id)
	if fn == nil {
		writeMessage(w, http.StatusNotFound, "Function not found")
		return nil
	}
	return fn
}

/* ---------------- Data entries ---------------- */

// CreateDataEntry handles POST /pages/{pageId}/sections/{sectionId}/data_entries.
func (h *Pages) CreateDataEntry(w http.ResponseWriter, r *http.Request) {
	page, section := h.loadSection(w, r)
	if section == nil {
		return
	}

	var body struct {
		EntryTitle  string `json:"entry_title"`
		ContentText string `json:"content_text"`
	}
	if err := decodeBody(r, &body); err != nil || body.EntryTitle == "" {
		writeMessage(w, http.StatusBadRequest, "Error adding data entry")
		return
	}

	entry := models.DataEntry{
		ID:          models.NewDocID(),
		EntryTitle:  body.EntryTitle,
		ContentText: body.ContentText,
	}
	section.DataEntries = append(section.DataEntries, entry)

	if err := h.pages.Update(page); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error adding data entry")
		return
	}

	h.audit(models.ActionRefs{PageID: &page.ID, SectionID: &section.ID, EntryID: &entry.ID},
		"create_entry", map[string]any{"entry_title": entry.EntryTitle})

	writeJSON(w, http.StatusCreated, entry)
}

// ListDataEntries handles GET .../data_entries.
func (h *Pages) ListDataEntries(w http.ResponseWriter, r *http.Request) {
	_, section := h.loadSection(w, r)
	if section == nil {
		return
	}
	writeJSON(w, http.StatusOK, section.DataEntries)
}

// GetDataEntry handles GET .../data_entries/{entryId}.
func (h *Pages) GetDataEntry(w http.ResponseWriter, r *http.Request) {
	_, section := h.loadSection(w, r)
	if section == nil {
		return
	}
	entry := h.resolveDataEntry(w, r, section)
	if entry == nil {
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// UpdateDataEntry handles PUT .../data_entries/{entryId}.
func (h *Pages) UpdateDataEntry(w http.ResponseWriter, r *http.Request) {
	page, section := h.loadSection(w, r)
	if section == nil {
		return
	}
	entry := h.resolveDataEntry(w, r, section)
	if entry == nil {
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Error updating data entry")
		return
	}
	var body struct {
		EntryTitle  *string `json:"entry_title"`
		ContentText *string `json:"content_text"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Error updating data entry")
		return
	}
	if body.EntryTitle != nil {
		entry.EntryTitle = *body.EntryTitle
	}
	if body.ContentText != nil {
		entry.ContentText = *body.ContentText
	}

	if err := h.pages.Update(page); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error updating data entry")
		return
	}

	var updatedFields map[string]any
	json.Unmarshal(raw, &updatedFields)
	h.audit(models.ActionRefs{PageID: &page.ID, SectionID: &section.ID, EntryID: &entry.ID},
		"update_entry", map[string]any{"updatedFields": updatedFields})

	writeJSON(w, http.StatusOK, entry)
}

// DeleteDataEntry handles DELETE .../data_entries/{entryId}.
func (h *Pages) DeleteDataEntry(w http.ResponseWriter, r *http.Request) {
	page, section := h.loadSection(w, r)
	if section == nil {
		return
	}
	entry := h.resolveDataEntry(w, r, section)
	if entry == nil {
		return
	}

	entryID := entry.ID
	title := entry.EntryTitle
	section.RemoveDataEntry(entryID)

	if err := h.pages.Update(page); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error deleting data entry")
		return
	}

	h.audit(models.ActionRefs{PageID: &page.ID, SectionID: &section.ID, EntryID: &entryID},
		"delete_entry", map[string]any{"deletedEntryTitle": title})

	writeMessage(w, http.StatusOK, "Data entry deleted successfully")
}

func (h *Pages) resolveDataEntry(w http.ResponseWriter, r *http.Request, section *models.Section) *models.DataEntry {
	id, err := docIDParam(r, "entryId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid data entry ID format")
		return nil
	}
	entry := section.DataEntry(id)
	if entry == nil {
		writeMessage(w, http.StatusNotFound, "Data entry not found")
		return nil
	}
	return entry
}
