// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pagesmith/internal/models"
)

func createPage(t *testing.T, env *testEnv, name string) *models.Page {
	t.Helper()
	rec := httptest.NewRecorder()
	env.Page.Create(rec, newRequest(t, http.MethodPost, "/pages",
		map[string]any{"page_name": name}, nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create page: %d, body %s", rec.Code, rec.Body.String())
	}

	var page models.Page
	decodeResponse(t, rec, &page)
	t.Cleanup(func() { env.DB.Exec("DELETE FROM pages WHERE id = $1", string(page.ID)) })
	return &page
}

func addSection(t *testing.T, env *testEnv, pageID models.DocID, title string) *models.Section {
	t.Helper()
	rec := httptest.NewRecorder()
	env.Page.CreateSection(rec, newRequest(t, http.MethodPost,
		"/pages/"+string(pageID)+"/sections",
		map[string]any{"section_title": title}, nil, "pageId", string(pageID)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create section: %d, body %s", rec.Code, rec.Body.String())
	}

	var sec models.Section
	decodeResponse(t, rec, &sec)
	return &sec
}

func TestPageCreateValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Page.Create(rec, newRequest(t, http.MethodPost, "/pages",
		map[string]any{"page_name": "   "}, nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank name: got %d, want 400", rec.Code)
	}
}

func TestPageCRUD(t *testing.T) {
	env := newTestEnv(t)

	page := createPage(t, env, "page-crud")
	if _, err := models.ParseDocID(string(page.ID)); err != nil {
		t.Errorf("page id %q invalid", page.ID)
	}
	if page.Sections == nil {
		t.Error("sections must be initialized, not nil")
	}

	// Rename.
	rec := httptest.NewRecorder()
	env.Page.Update(rec, newRequest(t, http.MethodPut, "/pages/"+string(page.ID),
		map[string]any{"page_name": "page-crud-renamed"}, nil, "pageId", string(page.ID)))
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	env.Page.Get(rec, newRequest(t, http.MethodGet, "/pages/"+string(page.ID), nil, nil, "pageId", string(page.ID)))
	var fetched models.Page
	decodeResponse(t, rec, &fetched)
	if fetched.PageName != "page-crud-renamed" {
		t.Errorf("name after update: got %q", fetched.PageName)
	}

	// Delete.
	rec = httptest.NewRecorder()
	env.Page.Delete(rec, newRequest(t, http.MethodDelete, "/pages/"+string(page.ID), nil, nil, "pageId", string(page.ID)))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	if msg := responseMessage(t, rec); msg != "Page deleted successfully" {
		t.Errorf("message: got %q", msg)
	}

	rec = httptest.NewRecorder()
	env.Page.Get(rec, newRequest(t, http.MethodGet, "/pages/"+string(page.ID), nil, nil, "pageId", string(page.ID)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: got %d, want 404", rec.Code)
	}

	lastAction(t, env, "create_page")
	lastAction(t, env, "update_page")
	lastAction(t, env, "delete_page")
}

func TestPageIDShapeErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Page.Get(rec, newRequest(t, http.MethodGet, "/pages/abc", nil, nil, "pageId", "abc"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed id: got %d, want 400", rec.Code)
	}

	missing := models.NewDocID()
	rec = httptest.NewRecorder()
	env.Page.Get(rec, newRequest(t, http.MethodGet, "/pages/"+string(missing), nil, nil, "pageId", string(missing)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing id: got %d, want 404", rec.Code)
	}
}

func TestSectionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	page := createPage(t, env, "page-sections")

	first := addSection(t, env, page.ID, "Hero")
	second := addSection(t, env, page.ID, "Footer")

	if first.SectionNumber != 1 || second.SectionNumber != 2 {
		t.Errorf("section numbers: got %d and %d", first.SectionNumber, second.SectionNumber)
	}

	// Update title.
	rec := httptest.NewRecorder()
	env.Page.UpdateSection(rec, newRequest(t, http.MethodPut,
		"/pages/"+string(page.ID)+"/sections/"+string(first.ID),
		map[string]any{"section_title": "Hero v2"}, nil,
		"pageId", string(page.ID), "sectionId", string(first.ID)))
	if rec.Code != http.StatusOK {
		t.Fatalf("update section: %d", rec.Code)
	}

	// Delete the first; the survivor keeps number 2.
	rec = httptest.NewRecorder()
	env.Page.DeleteSection(rec, newRequest(t, http.MethodDelete,
		"/pages/"+string(page.ID)+"/sections/"+string(first.ID), nil, nil,
		"pageId", string(page.ID), "sectionId", string(first.ID)))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete section: %d", rec.Code)
	}

	found, _ := env.Pages.FindByID(page.ID)
	if len(found.Sections) != 1 {
		t.Fatalf("sections: got %d, want 1", len(found.Sections))
	}
	if found.Sections[0].SectionNumber != 2 {
		t.Errorf("numbers must not be re-packed after deletion, got %d", found.Sections[0].SectionNumber)
	}

	// The next section gets count+1, so the page ends with duplicate number 2.
	third := addSection(t, env, page.ID, "Sidebar")
	if third.SectionNumber != 2 {
		t.Errorf("new section number: got %d, want count+1 = 2", third.SectionNumber)
	}

	lastAction(t, env, "create_section")
	lastAction(t, env, "update_section")
	lastAction(t, env, "delete_section")
}

func TestFunctionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	page := createPage(t, env, "page-functions")
	sec := addSection(t, env, page.ID, "Widgets")

	params := []string{"pageId", string(page.ID), "sectionId", string(sec.ID)}

	// Create.
	rec := httptest.NewRecorder()
	env.Page.CreateFunction(rec, newRequest(t, http.MethodPost,
		"/pages/x/sections/y/functions",
		map[string]any{"function_name": "openModal"}, nil, params...))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create function: %d, body %s", rec.Code, rec.Body.String())
	}
	var fn models.Function
	decodeResponse(t, rec, &fn)

	// Missing name is rejected.
	rec = httptest.NewRecorder()
	env.Page.CreateFunction(rec, newRequest(t, http.MethodPost,
		"/pages/x/sections/y/functions", map[string]any{}, nil, params...))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty function name: got %d, want 400", rec.Code)
	}

	// Update.
	fnParams := append(append([]string{}, params...), "functionId", string(fn.ID))
	rec = httptest.NewRecorder()
	env.Page.UpdateFunction(rec, newRequest(t, http.MethodPut,
		"/pages/x/sections/y/functions/z",
		map[string]any{"function_name": "closeModal"}, nil, fnParams...))
	if rec.Code != http.StatusOK {
		t.Fatalf("update function: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	env.Page.GetFunction(rec, newRequest(t, http.MethodGet,
		"/pages/x/sections/y/functions/z", nil, nil, fnParams...))
	var got models.Function
	decodeResponse(t, rec, &got)
	if got.FunctionName != "closeModal" {
		t.Errorf("function after update: %+v", got)
	}

	// Delete.
	rec = httptest.NewRecorder()
	env.Page.DeleteFunction(rec, newRequest(t, http.MethodDelete,
		"/pages/x/sections/y/functions/z", nil, nil, fnParams...))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete function: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	env.Page.GetFunction(rec, newRequest(t, http.MethodGet,
		"/pages/x/sections/y/functions/z", nil, nil, fnParams...))
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: got %d, want 404", rec.Code)
	}

	lastAction(t, env, "create_function")
	lastAction(t, env, "update_function")
	lastAction(t, env, "delete_function")
}

func TestDataEntryLifecycle(t *testing.T) {
	env := newTestEnv(t)
	page := createPage(t, env, "page-entries")
	sec := addSection(t, env, page.ID, "Content")

	params := []string{"pageId", string(page.ID), "sectionId", string(sec.ID)}

	rec := httptest.NewRecorder()
	env.Page.CreateDataEntry(rec, newRequest(t, http.MethodPost,
		"/pages/x/sections/y/data_entries",
		map[string]any{"entry_title": "Intro", "content_text": "Hello there"}, nil, params...))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create entry: %d, body %s", rec.Code, rec.Body.String())
	}
	var entry models.DataEntry
	decodeResponse(t, rec, &entry)
	if entry.ContentText != "Hello there" {
		t.Errorf("entry: %+v", entry)
	}

	entryParams := append(append([]string{}, params...), "entryId", string(entry.ID))

	// Partial update: only the text.
	rec = httptest.NewRecorder()
	env.Page.UpdateDataEntry(rec, newRequest(t, http.MethodPut,
		"/pages/x/sections/y/data_entries/z",
		map[string]any{"content_text": "Updated text"}, nil, entryParams...))
	if rec.Code != http.StatusOK {
		t.Fatalf("update entry: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	env.Page.GetDataEntry(rec, newRequest(t, http.MethodGet,
		"/pages/x/sections/y/data_entries/z", nil, nil, entryParams...))
	var got models.DataEntry
	decodeResponse(t, rec, &got)
	if got.EntryTitle != "Intro" || got.ContentText != "Updated text" {
		t.Errorf("entry after partial update: %+v", got)
	}

	// Delete.
	rec = httptest.NewRecorder()
	env.Page.DeleteDataEntry(rec, newRequest(t, http.MethodDelete,
		"/pages/x/sections/y/data_entries/z", nil, nil, entryParams...))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete entry: %d", rec.Code)
	}

	found, _ := env.Pages.FindByID(page.ID)
	if len(found.Sections[0].DataEntries) != 0 {
		t.Errorf("entries after delete: %+v", found.Sections[0].DataEntries)
	}

	lastAction(t, env, "create_entry")
	lastAction(t, env, "update_entry")
	lastAction(t, env, "delete_entry")
}

func TestSectionNotFoundBeforeChild(t *testing.T) {
	env := newTestEnv(t)
	page := createPage(t, env, "page-missing-section")

	missing := models.NewDocID()
	rec := httptest.NewRecorder()
	env.Page.CreateFunction(rec, newRequest(t, http.MethodPost,
		"/pages/x/sections/y/functions",
		map[string]any{"function_name": "f"}, nil,
		"pageId", string(page.ID), "sectionId", string(missing)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing section: got %d, want 404", rec.Code)
	}
}
