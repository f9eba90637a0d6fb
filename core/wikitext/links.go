package wikitext

import (
	"regexp"
	"strings"
)

// Link is an internal wiki link [[Target|Label]].
type Link struct {
	Target string
	Label  string
}

var (
	linkRe        = regexp.MustCompile(`\[\[([^\[\]|]+?)(?:\|([^\[\]]*?))?\]\]`)
	linkNoiseRe   = regexp.MustCompile(`[\s,;:&/()'"|–-]+`)
	anyTemplateRe = regexp.MustCompile(`\{\{[^{}]*\}\}`)
)

// Links returns the wiki links of s in order. The label defaults to the target.
func Links(s string) []Link {
	matches := linkRe.FindAllStringSubmatch(s, -1)
	links := make([]Link, 0, len(matches))
	for _, m := range matches {
		target := strings.TrimSpace(m[1])
		if target == "" {
			continue
		}
		label := strings.TrimSpace(m[2])
		if label == "" {
			label = target
		}
		links = append(links, Link{Target: target, Label: label})
	}
	return links
}

// HasLinks reports whether s contains at least one wiki link.
func HasLinks(s string) bool {
	return linkRe.MatchString(s)
}

// StripLinks rewrites every link to its display label.
func StripLinks(s string) string {
	return linkRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := linkRe.FindStringSubmatch(m)
		if label := strings.TrimSpace(sub[2]); label != "" {
			return label
		}
		return strings.TrimSpace(sub[1])
	})
}

// OnlyLinks is true when s has links and nothing else than templates,
// punctuation, value separators and whitespace around them.
func OnlyLinks(s string) bool {
	if !HasLinks(s) {
		return false
	}
	rest := linkRe.ReplaceAllString(s, "")
	rest = stripLeafTemplates(rest)
	rest = linkNoiseRe.ReplaceAllString(rest, "")
	return rest == ""
}

func stripLeafTemplates(s string) string {
	for {
		next := anyTemplateRe.ReplaceAllString(s, "")
		if next == s {
			return next
		}
		s = next
	}
}
