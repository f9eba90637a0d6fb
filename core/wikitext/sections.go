package wikitext

import (
	"regexp"
	"strings"
)

var (
	headingRe  = regexp.MustCompile(`(?m)^(={2,6})[ \t]*(.*?)[ \t]*={2,6}[ \t]*$`)
	listItemRe = regexp.MustCompile(`^[*#]+\s*(.+?)(?:\s+[-–—]\s|:)`)
)

// Section returns the body of the first section titled title, compared
// case-insensitively. The body ends at the next heading of the same or a
// higher level. ok is false when there is no such heading.
func Section(text, title string) (body string, ok bool) {
	headings := headingRe.FindAllStringSubmatchIndex(text, -1)
	for i, h := range headings {
		if !strings.EqualFold(text[h[4]:h[5]], strings.TrimSpace(title)) {
			continue
		}

		level := h[3] - h[2]
		end := len(text)
		for _, next := range headings[i+1:] {
			if next[3]-next[2] <= level {
				end = next[0]
				break
			}
		}
		return strings.TrimSpace(text[h[1]:end]), true
	}
	return "", false
}

// OtherNames lists the names of the "Other names" section of a page. Each
// bullet item contributes its head, the part before " - " or ":", with
// links and emphasis removed.
func OtherNames(text string) []string {
	body, ok := Section(text, "Other names")
	if !ok {
		return nil
	}

	var names []string
	seen := map[string]bool{}
	for _, line := range strings.Split(body, "\n") {
		m := listItemRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		name := FlattenSeparators(StripLinks(Clean(m[1])))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// RefersToOtherNames is true for values like "See below" or "see [[#Other names]]"
// which point to the section instead of listing names.
func RefersToOtherNames(value string) bool {
	lower := strings.ToLower(value)
	return strings.Contains(lower, "see below") || strings.Contains(lower, "see [[")
}
