package ontology

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	underscoreRe = regexp.MustCompile(`_{2,}`)
)

// Sanitize converts a title into an identifier-safe local name.
// Accents are stripped, anything but letters, digits, "_" and "." becomes "_".
// The result is never empty and the same title always gives the same name.
func Sanitize(title string) string {
	t := whitespaceRe.ReplaceAllString(strings.TrimSpace(title), "_")
	t = norm.NFD.String(t)

	var b strings.Builder
	b.Grow(len(t))
	for _, r := range t {
		switch {
		case unicode.Is(unicode.Mn, r):
		case unicode.IsLetter(r), unicode.IsNumber(r), r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	t = strings.Trim(underscoreRe.ReplaceAllString(b.String(), "_"), "_")
	if t == "" {
		return "unknown"
	}
	return t
}
