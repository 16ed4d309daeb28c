package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify maps a free-text market name to its canonical URL-safe slug.
// The mapping is a pure function of the name: lowercase, diacritics stripped,
// runs of non-alphanumerics collapsed to a single '-', leading/trailing '-'
// trimmed. Distinct names that collapse to the same slug are treated as the
// same market.
func Slugify(marketName string) string {
	lower := strings.ToLower(strings.TrimSpace(marketName))

	stripped, _, err := transform.String(deaccent, lower)
	if err != nil {
		stripped = lower
	}

	var b strings.Builder
	b.Grow(len(stripped))
	prevDash := true // swallow a leading separator
	for _, r := range stripped {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
