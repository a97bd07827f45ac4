// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Page is the legacy standalone document aggregate. Sections and their
// children are embedded: they are addressable only through the parent chain
// (page -> section -> function/entry) and never exist outside their page.
type Page struct {
	ID         DocID     `json:"_id"`
	PageName   string    `json:"page_name"`
	TemplateID *DocID    `json:"template,omitempty"`
	Sections   []Section `json:"sections"`
}

// Section is an embedded child of a Page with its own stable identity.
// SectionNumber is a creation-time sequence hint (count+1); it is not
// re-packed when earlier sections are deleted.
type Section struct {
	ID            DocID       `json:"_id"`
	SectionTitle  string      `json:"section_title"`
	SectionNumber int         `json:"section_number"`
	DataEntries   []DataEntry `json:"data_entries"`
	Functions     []Function  `json:"functions"`
}

// Function is an interactive widget attached to a section.
type Function struct {
	ID           DocID  `json:"_id"`
	FunctionName string `json:"function_name"`
}

// DataEntry is a titled block of text content inside a section.
type DataEntry struct {
	ID          DocID  `json:"_id"`
	EntryTitle  string `json:"entry_title"`
	ContentText string `json:"content_text"`
}

// Section returns a pointer to the embedded section with the given id, or
// nil if the page has no such section.
func (p *Page) Section(id DocID) *Section {
	for i := range p.Sections {
		if p.Sections[i].ID == id {
			return &p.Sections[i]
		}
	}
	return nil
}

// RemoveSection deletes the section with the given id. Returns false when
// the section is absent.
func (p *Page) RemoveSection(id DocID) bool {
	for i := range p.Sections {
		if p.Sections[i].ID == id {
			p.Sections = append(p.Sections[:i], p.Sections[i+1:]...)
			return true
		}
	}
	return false
}

// Function returns a pointer to the function with the given id, or nil.
func (s *Section) Function(id DocID) *Function {
	for i := range s.Functions {
		if s.Functions[i].ID == id {
			return &s.Functions[i]
		}
	}
	return nil
}

// RemoveFunction deletes the function with the given id. Returns false when
// absent.
func (s *Section) RemoveFunction(id DocID) bool {
	for i := range s.Functions {
		if s.Functions[i].ID == id {
			s.Functions = append(s.Functions[:i], s.Functions[i+1:]...)
			return true
		}
	}
	return false
}

// DataEntry returns a pointer to the data entry with the given id, or nil.
func (s *Section) DataEntry(id DocID) *DataEntry {
	for i := range s.DataEntries {
		if s.DataEntries[i].ID == id {
			return &s.DataEntries[i]
		}
	}
	return nil
}

// RemoveDataEntry deletes the data entry with the given id. Returns false
// when absent.
func (s *Section) RemoveDataEntry(id DocID) bool {
	for i := range s.DataEntries {
		if s.DataEntries[i].ID == id {
			s.DataEntries = append(s.DataEntries[:i], s.DataEntries[i+1:]...)
			return true
		}
	}
	return false
}
