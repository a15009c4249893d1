// Package textx cleans free text submitted by members before it is stored.
package textx

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every element and attribute; bluemonday policies are safe
// for concurrent use once built.
var strict = bluemonday.StrictPolicy()

// Sanitize strips all markup from s and trims surrounding whitespace. The
// result is plain text: entities escaped by the policy are decoded again so
// "Tom & Jerry" round-trips unchanged.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Length returns the number of characters (runes) in s.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}
