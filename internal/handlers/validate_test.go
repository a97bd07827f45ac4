package handlers

import (
	"strings"
	"testing"

	"pagesmith/internal/models"
)

func TestValidateTemplateName(t *testing.T) {
	if msg := validateTemplateName("My Portfolio"); msg != "" {
		t.Errorf("valid name rejected: %q", msg)
	}
	if msg := validateTemplateName(""); msg == "" {
		t.Error("empty name must be rejected")
	}
	if msg := validateTemplateName("   "); msg == "" {
		t.Error("whitespace name must be rejected")
	}
	if msg := validateTemplateName(strings.Repeat("x", maxTemplateNameLen+1)); msg == "" {
		t.Error("over-long name must be rejected")
	}
	if msg := validateTemplateName(strings.Repeat("x", maxTemplateNameLen)); msg != "" {
		t.Errorf("name at the limit rejected: %q", msg)
	}
}

func TestValidatePagesCap(t *testing.T) {
	atCap := make([]models.PageState, models.MaxPagesPerTemplate)
	if msg := validatePages(atCap); msg != "" {
		t.Errorf("pages at the cap rejected: %q", msg)
	}

	overCap := make([]models.PageState, models.MaxPagesPerTemplate+1)
	if msg := validatePages(overCap); msg == "" {
		t.Error("pages over the cap must be rejected")
	}

	if msg := validatePages(nil); msg != "" {
		t.Errorf("nil pages rejected: %q", msg)
	}
}

func TestValidatePagesContentLimit(t *testing.T) {
	ok := []models.PageState{{Content: strings.Repeat("a", maxPageContentLen)}}
	if msg := validatePages(ok); msg != "" {
		t.Errorf("content at the limit rejected: %q", msg)
	}

	tooBig := []models.PageState{{Content: strings.Repeat("a", maxPageContentLen+1)}}
	if msg := validatePages(tooBig); msg == "" {
		t.Error("over-long content must be rejected")
	}
}

func TestValidatePageName(t *testing.T) {
	if msg := validatePageName("Home"); msg != "" {
		t.Errorf("valid name rejected: %q", msg)
	}
	if msg := validatePageName(" "); msg == "" {
		t.Error("blank page name must be rejected")
	}
}

func TestValidateSectionTitle(t *testing.T) {
	if msg := validateSectionTitle("Hero"); msg != "" {
		t.Errorf("valid title rejected: %q", msg)
	}
	if msg := validateSectionTitle(""); msg == "" {
		t.Error("empty title must be rejected")
	}
	if msg := validateSectionTitle(strings.Repeat("y", maxSectionTitleLen+1)); msg == "" {
		t.Error("over-long title must be rejected")
	}
}
