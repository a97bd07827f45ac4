// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// DenialReason is one entry of the fixed catalog shown to admins in the
// reject dialog. The code is stored on the template; the text is shown to
// the template's owner.
type DenialReason struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// DenialReasons is the catalog, in display order. Loaded once at process
// start; never mutated at runtime.
var DenialReasons = []DenialReason{
	{Code: "INCOMPLETE", Text: "Template is incomplete or has empty pages."},
	{Code: "FORMAT", Text: "Formatting/layout issues (overflow, broken sections, unreadable text)."},
	{Code: "BROKEN_WIDGETS", Text: "Some widgets/features do not function correctly."},
	{Code: "LOW_QUALITY", Text: "Overall quality needs improvement (spacing, consistency, clarity)."},
	{Code: "DUPLICATE", Text: "Template is too similar to an existing published template."},
	{Code: "OTHER", Text: "Other (admin selected a general reason)."},
}

// DenialReasonByCode looks up a catalog entry. The second return value is
// false for unknown codes.
func DenialReasonByCode(code string) (DenialReason, bool) {
	for _, r := range DenialReasons {
		if r.Code == code {
			return r, true
		}
	}
	return DenialReason{}, false
}
