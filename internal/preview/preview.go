// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package preview turns the page snapshots embedded in a template into
// standalone HTML documents that render correctly inside an isolated
// preview frame.
package preview

import (
	"fmt"
	"regexp"

	"pagesmith/internal/models"
)

// PageView is the projection served by the pages-view endpoints.
type PageView struct {
	PageNumber int    `json:"pageNumber"`
	Name       string `json:"name"`
	HTML       string `json:"html"`
}

// defaultBackground is used when a page carries no backgroundColor.
const defaultBackground = "#ffffff"

// fullDocPattern matches content that is already a complete HTML document:
// a doctype or opening <html> tag, allowing leading whitespace.
var fullDocPattern = regexp.MustCompile(`(?i)^\s*<!doctype\s+html|^\s*<html[\s>]`)

// IsFullDocument reports whether content should be served verbatim instead
// of being wrapped in the minimal shell.
func IsFullDocument(content string) bool {
	return fullDocPattern.MatchString(content)
}

// WrapFragment embeds a partial markup fragment in a minimal HTML document
// that applies the page's background color to the body.
func WrapFragment(content, backgroundColor string) string {
	if backgroundColor == "" {
		backgroundColor = defaultBackground
	}
	return fmt.Sprintf(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    body { margin: 0; padding: 16px; background: %s; font-family: Arial, sans-serif; }
  </style>
</head>
<body>
%s
</body>
</html>`, backgroundColor, content)
}

// BuildPageViews maps each embedded page to its preview document. Pages with
// no name get a positional "Page N" label; full documents pass through
// untouched.
func BuildPageViews(pages []models.PageState) []PageView {
	views := make([]PageView, 0, len(pages))
	for i, p := range pages {
		html := p.Content
		if !IsFullDocument(p.Content) {
			html = WrapFragment(p.Content, p.Style.BackgroundColor)
		}

		name := p.Name
		if name == "" {
			name = fmt.Sprintf("Page %d", i+1)
		}

		views = append(views, PageView{
			PageNumber: i + 1,
			Name:       name,
			HTML:       html,
		})
	}
	return views
}
