// Package slug derives canonical cache keys from display names.
// The slug is the only lookup key for guide documents, so Make must be
// applied identically on the write path and the read path.
package slug

import (
	"regexp"
	"strings"
)

var spaceRuns = regexp.MustCompile(`\s+`)

// Make normalizes a free-text identifier into a canonical key:
// lowercase, trimmed, internal whitespace runs collapsed to a single hyphen.
// Punctuation and diacritics are kept as-is. Make is idempotent.
func Make(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	return spaceRuns.ReplaceAllString(s, "-")
}

// Display approximates the human-readable name for a slug by turning
// hyphens back into spaces. This is lossy: a name that originally contained
// hyphens cannot be recovered. Good enough as a generation prompt input.
func Display(s string) string {
	return strings.ReplaceAll(s, "-", " ")
}
