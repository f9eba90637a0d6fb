package wikitext

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrBlockNotFound means the text has no opening marker at all.
	ErrBlockNotFound = errors.New("template block not found")
	// ErrBlockUnbalanced means a marker was found but its braces never close.
	ErrBlockUnbalanced = errors.New("template block unbalanced")
)

// Marker locates the start of a block inside wikitext.
type Marker interface {
	// Index returns the byte offset of the first match or -1.
	Index(text string) int
}

// LiteralMarker matches a literal prefix case-insensitively, e.g. "{{infobox".
type LiteralMarker string

// Index compares in place so the offset stays valid for text even where
// lower casing would change the byte length.
func (m LiteralMarker) Index(text string) int {
	n := len(m)
	for i := 0; i+n <= len(text); i++ {
		if strings.EqualFold(text[i:i+n], string(m)) {
			return i
		}
	}
	return -1
}

// RegexpMarker matches the first occurrence of Pattern.
type RegexpMarker struct {
	Pattern *regexp.Regexp
}

func (m RegexpMarker) Index(text string) int {
	loc := m.Pattern.FindStringIndex(text)
	if loc == nil {
		return -1
	}
	return loc[0]
}

var (
	// InfoboxMarker matches "{{infobox" with optional whitespace after the braces.
	InfoboxMarker = RegexpMarker{Pattern: regexp.MustCompile(`(?i)\{\{\s*infobox`)}
	// AnyTemplateMarker matches the opening of any named template.
	AnyTemplateMarker = RegexpMarker{Pattern: regexp.MustCompile(`\{\{\s*[\p{L}\p{N}_]`)}
)

// ExtractBlock returns the substring from the first marker match up to and
// including its balanced closing braces. Nested templates of any depth are
// kept inside the block.
func ExtractBlock(text string, marker Marker) (string, error) {
	start := marker.Index(text)
	if start < 0 {
		return "", ErrBlockNotFound
	}

	end, err := matchBraces(text, start)
	if err != nil {
		return "", err
	}

	return text[start:end], nil
}

// ExtractInfobox extracts the infobox block and falls back to the first
// template of any name when the page has no infobox marker.
func ExtractInfobox(text string) (string, error) {
	block, err := ExtractBlock(text, InfoboxMarker)
	if errors.Is(err, ErrBlockNotFound) {
		return ExtractBlock(text, AnyTemplateMarker)
	}
	return block, err
}

// matchBraces scans from start two bytes at a time and returns the offset
// just after the "}}" that brings the nesting depth back to zero.
func matchBraces(text string, start int) (int, error) {
	depth := 0
	for i := start; i < len(text)-1; {
		switch {
		case text[i] == '{' && text[i+1] == '{':
			depth++
			i += 2
		case text[i] == '}' && text[i+1] == '}':
			depth--
			i += 2
			if depth == 0 {
				return i, nil
			}
			if depth < 0 {
				return 0, ErrBlockUnbalanced
			}
		default:
			i++
		}
	}
	return 0, ErrBlockUnbalanced
}
