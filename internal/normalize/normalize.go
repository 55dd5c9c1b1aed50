package normalize

import (
	"strings"
	"unicode"
)

// Email returns the form of an email address used for storage and comparisons:
// surrounding whitespace trimmed and lower-cased.
func Email(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Slug returns the stable key derived from a title: lower-cased, characters
// other than letters, digits, spaces and dashes dropped, and runs of spaces
// and dashes collapsed into one dash.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r == '-' || unicode.IsSpace(r):
			if !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
