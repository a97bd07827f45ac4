package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"pagesmith/internal/models"
)

// Validation limits for builder inputs.
const (
	maxTemplateNameLen = 200
	maxPageNameLen     = 200
	maxSectionTitleLen = 300
	maxEntryTitleLen   = 300
	maxPageContentLen  = 500_000
)

// validateTemplateName checks the template name and returns the first error found.
func validateTemplateName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Template name is required."
	}
	if utf8.RuneCountInString(name) > maxTemplateNameLen {
		return "Template name is too long (max 200 characters)."
	}
	return ""
}

// validatePages enforces the server-side page cap and per-page content limit.
func validatePages(pages []models.PageState) string {
	if len(pages) > models.MaxPagesPerTemplate {
		return fmt.Sprintf("A template may have at most %d pages.", models.MaxPagesPerTemplate)
	}
	for _, p := range pages {
		if utf8.RuneCountInString(p.Content) > maxPageContentLen {
			return "Page content is too long (max 500,000 characters)."
		}
	}
	return ""
}

// validatePageName checks the standalone page name.
func validatePageName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Page name is required."
	}
	if utf8.RuneCountInString(name) > maxPageNameLen {
		return "Page name is too long (max 200 characters)."
	}
	return ""
}

// validateSectionTitle checks a section title.
func validateSectionTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Section title is required."
	}
	if utf8.RuneCountInString(title) > maxSectionTitleLen {
		return "Section title is too long (max 300 characters)."
	}
	return ""
}
