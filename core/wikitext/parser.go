package wikitext

import (
	"regexp"
	"strings"

	"github.com/siherrmann/wikigrapher/model"
)

// Argument is one "|"-separated template argument.
type Argument struct {
	Name       string // empty for positional arguments
	Value      string
	Positional bool
}

// Template is a top-level {{...}} invocation.
type Template struct {
	Name string
	Args []Argument
}

// NormalizedName is the lowercased template name with collapsed whitespace.
func (t Template) NormalizedName() string {
	return strings.ToLower(whitespaceRe.ReplaceAllString(strings.TrimSpace(t.Name), " "))
}

var structuralKeyRe = regexp.MustCompile(`^(content|label)(\d+)$`)

// ParseTemplates returns the top-level templates of text in order.
// Comments and references are dropped first since a "|" inside a citation
// would otherwise split an argument. Text between templates is ignored and
// an unclosed template ends the scan.
func ParseTemplates(text string) []Template {
	text = commentRe.ReplaceAllString(text, "")
	text = refSelfClosingRe.ReplaceAllString(text, "")
	text = refPairedRe.ReplaceAllString(text, "")

	var templates []Template
	for i := 0; i < len(text)-1; {
		if text[i] != '{' || text[i+1] != '{' {
			i++
			continue
		}

		end, err := matchBraces(text, i)
		if err != nil {
			break
		}

		if tpl, ok := parseTemplateBody(text[i+2 : end-2]); ok {
			templates = append(templates, tpl)
		}
		i = end
	}

	return templates
}

func parseTemplateBody(body string) (Template, bool) {
	parts := splitTopLevel(body, '|')
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return Template{}, false
	}

	tpl := Template{Name: name}
	for _, part := range parts[1:] {
		eq := indexTopLevel(part, '=')
		if eq < 0 {
			tpl.Args = append(tpl.Args, Argument{Value: strings.TrimSpace(part), Positional: true})
			continue
		}
		tpl.Args = append(tpl.Args, Argument{
			Name:  strings.TrimSpace(part[:eq]),
			Value: strings.TrimSpace(part[eq+1:]),
		})
	}

	return tpl, true
}

// Parse selects the primary template of block and returns it as a record.
// The first template whose name starts with "infobox" wins, otherwise the
// first template. Without any template the record is empty.
func Parse(title string, block string) *model.InfoboxRecord {
	templates := ParseTemplates(block)

	tpl, ok := selectTemplate(templates, "infobox")
	if !ok && len(templates) > 0 {
		tpl, ok = templates[0], true
	}
	if !ok {
		return &model.InfoboxRecord{EntityTitle: title, Fields: model.Fields{}}
	}

	return buildRecord(title, tpl)
}

func buildRecord(title string, tpl Template) *model.InfoboxRecord {
	record := &model.InfoboxRecord{
		EntityTitle:  title,
		TemplateName: tpl.NormalizedName(),
		Fields:       model.Fields{},
	}

	for _, arg := range tpl.Args {
		if arg.Positional || arg.Name == "" {
			continue
		}
		record.Fields = record.Fields.Add(arg.Name, arg.Value)
	}

	for _, field := range record.Fields {
		m := structuralKeyRe.FindStringSubmatch(field.Key)
		if m == nil || m[1] != "content" || !strings.HasPrefix(field.Value, "{{") {
			continue
		}

		sub, ok := selectTemplate(ParseTemplates(field.Value), "song", "infobox")
		if !ok {
			continue
		}

		label, _ := record.Fields.Get("label" + m[2])
		record.Embedded = append(record.Embedded, buildRecord(StripLinks(Clean(label)), sub))
	}

	record.Fields = record.Fields.Without(structuralKeyRe.MatchString)

	return record
}

func selectTemplate(templates []Template, prefixes ...string) (Template, bool) {
	for _, tpl := range templates {
		name := tpl.NormalizedName()
		for _, prefix := range prefixes {
			if strings.HasPrefix(name, prefix) {
				return tpl, true
			}
		}
	}
	return Template{}, false
}

// splitTopLevel splits s on sep outside of nested templates and links.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	last := 0
	scanTopLevel(s, func(i int) bool {
		if s[i] == sep {
			parts = append(parts, s[last:i])
			last = i + 1
		}
		return true
	})
	return append(parts, s[last:])
}

// indexTopLevel returns the first offset of sep outside nested templates and links.
func indexTopLevel(s string, sep byte) int {
	index := -1
	scanTopLevel(s, func(i int) bool {
		if s[i] == sep {
			index = i
			return false
		}
		return true
	})
	return index
}

// scanTopLevel calls visit for every byte at nesting depth zero until visit returns false.
func scanTopLevel(s string, visit func(i int) bool) {
	braces, brackets := 0, 0
	for i := 0; i < len(s); i++ {
		if i+1 < len(s) {
			pair := s[i : i+2]
			switch {
			case pair == "{{":
				braces++
				i++
				continue
			case pair == "}}" && braces > 0:
				braces--
				i++
				continue
			case pair == "[[":
				brackets++
				i++
				continue
			case pair == "]]" && brackets > 0:
				brackets--
				i++
				continue
			}
		}
		if braces == 0 && brackets == 0 && !visit(i) {
			return
		}
	}
}
