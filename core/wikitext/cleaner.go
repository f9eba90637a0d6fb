package wikitext

import (
	"regexp"
	"strings"
)

// ValueSeparator replaces line break tags so that list values can be split later.
const ValueSeparator = "|||"

var (
	commentRe        = regexp.MustCompile(`(?s)<!--.*?-->`)
	refSelfClosingRe = regexp.MustCompile(`(?i)<ref\b[^>]*/>`)
	refPairedRe      = regexp.MustCompile(`(?is)<ref\b[^>]*>.*?</ref\s*>`)
	refStrayRe       = regexp.MustCompile(`(?i)</?ref\b[^>]*>`)
	externalLinkRe   = regexp.MustCompile(`\[(https?://[^\s\]]+)(?:\s+([^\]]*))?\]`)
	lineBreakRe      = regexp.MustCompile(`(?i)<br\s*/?>`)
	inlineTagRe      = regexp.MustCompile(`(?i)</?(?:small|span|sup|sub|i|b|div|p|strong|em|nowiki)\b[^>]*>`)
	genericTagRe     = regexp.MustCompile(`</?[A-Za-z][^<>]*>`)
	eraDateRe        = regexp.MustCompile(`\{\{\s*(SR|TA|FA|SA|YT|FoA)\s*\|\s*(\d+)\s*(?:\|[^{}]*)?\}\}`)
	emphasisRe       = regexp.MustCompile(`'{2,}`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
	separatorRe      = regexp.MustCompile(`\s*\|\|\|\s*`)
	timelineRe       = regexp.MustCompile(`(?i)\{\{\s*Timeline\b`)

	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&quot;", `"`,
		"&lt;", "<",
		"&gt;", ">",
	)
)

// Clean removes markup noise from a raw field value: references, HTML tags,
// entities, leaf templates and emphasis. Era date templates such as {{TA|3019}}
// are kept as plain text ("TA 3019") and <br> becomes ValueSeparator.
func Clean(raw string) string {
	return clean(raw, false)
}

// CleanPreserving behaves like Clean but leaves a {{Timeline ...}} block
// verbatim so it can be parsed later. Whitespace is not collapsed in that case.
func CleanPreserving(raw string) string {
	return clean(raw, true)
}

func clean(raw string, preserveTimeline bool) string {
	v := commentRe.ReplaceAllString(raw, "")
	v = refSelfClosingRe.ReplaceAllString(v, "")
	v = refPairedRe.ReplaceAllString(v, "")
	v = refStrayRe.ReplaceAllString(v, "")

	v = externalLinkRe.ReplaceAllStringFunc(v, func(m string) string {
		sub := externalLinkRe.FindStringSubmatch(m)
		if label := strings.TrimSpace(sub[2]); label != "" {
			return label
		}
		return sub[1]
	})

	v = lineBreakRe.ReplaceAllString(v, ValueSeparator)
	v = inlineTagRe.ReplaceAllString(v, "")
	v = genericTagRe.ReplaceAllString(v, "")

	v = entityReplacer.Replace(v)
	v = genericTagRe.ReplaceAllString(v, "")
	// Lone angle brackets are dropped too, including decoded comparisons:
	// "a &lt; b" becomes "a b". Values never carry < or > past this point.
	v = strings.NewReplacer("<", "", ">", "").Replace(v)

	v = eraDateRe.ReplaceAllString(v, "$1 $2")

	if preserveTimeline {
		if loc := timelineRe.FindStringIndex(v); loc != nil {
			if end, err := matchBraces(v, loc[0]); err == nil {
				before := emphasisRe.ReplaceAllString(stripTemplates(v[:loc[0]]), "")
				after := emphasisRe.ReplaceAllString(stripTemplates(v[end:]), "")
				return strings.TrimSpace(before + v[loc[0]:end] + after)
			}
		}
	}

	v = stripTemplates(v)
	v = emphasisRe.ReplaceAllString(v, "")
	v = whitespaceRe.ReplaceAllString(v, " ")

	return strings.TrimSpace(v)
}

// stripTemplates removes leaf templates until none are left, then drops
// any stray braces of a template that never closed.
func stripTemplates(s string) string {
	s = stripLeafTemplates(s)
	return strings.NewReplacer("{{", "", "}}", "").Replace(s)
}

// HasTimeline reports whether a cleaned value still carries a Timeline block.
func HasTimeline(s string) bool {
	return timelineRe.MatchString(s)
}

// SplitValues splits on ValueSeparator only and trims each part.
func SplitValues(s string) []string {
	parts := strings.Split(s, ValueSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FlattenSeparators joins separated values with "; " for single literal output.
func FlattenSeparators(s string) string {
	s = separatorRe.ReplaceAllString(s, "; ")
	return strings.Trim(s, "; ")
}
