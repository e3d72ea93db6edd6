// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes publication titles and computes title
// similarity for cross-catalog matching.
package normalize

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

// tagPattern matches markup tags such as "<i>" and "</SUB>".
var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Title canonicalizes a free-text title for comparison. It decodes HTML
// entities repeatedly until a fixed point (catalogs double-encode, e.g.
// "&amp;lt;" → "&lt;" → "<"), strips markup tags, lowercases, drops every
// rune except letters, digits, underscore, and whitespace, and collapses
// whitespace runs to single spaces.
//
// Title is idempotent and never fails; an empty input yields an empty output.
func Title(s string) string {
	for {
		decoded := html.UnescapeString(s)
		if decoded == s {
			break
		}
		s = decoded
	}

	s = tagPattern.ReplaceAllString(s, "")

	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
