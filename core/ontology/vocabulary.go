package ontology

import (
	"fmt"
	"strings"

	"github.com/knakk/rdf"
	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/model"
)

// PredicateClass selects the emission rule of a predicate.
type PredicateClass int

const (
	ClassGeneric PredicateClass = iota
	ClassLiteral
	ClassLocation
	ClassRelation
	ClassGender
	ClassFamily
	ClassURL
)

var classNames = map[PredicateClass]string{
	ClassGeneric:  "generic",
	ClassLiteral:  "literal",
	ClassLocation: "location",
	ClassRelation: "relation",
	ClassGender:   "gender",
	ClassFamily:   "family",
	ClassURL:      "url",
}

func (c PredicateClass) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// ParsePredicateClass is the inverse of PredicateClass.String.
func ParsePredicateClass(name string) (PredicateClass, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ClassGeneric, nil
	}
	for c, n := range classNames {
		if n == name {
			return c, nil
		}
	}
	return ClassGeneric, fmt.Errorf("unknown predicate class %q", name)
}

// PredicateInfo is the emission policy of one predicate.
type PredicateInfo struct {
	IRI        rdf.IRI
	Class      PredicateClass
	FirstOnly  bool // only the first link is kept
	Structured bool // keeps a Timeline block as one literal
}

// TypeRule maps a normalized template name (or a substring of it) to a type.
type TypeRule struct {
	Key  string
	Type rdf.IRI
}

// Vocabulary is the immutable mapping configuration shared by the mapper
// and the emitter. Build it once with NewVocabulary or DefaultVocabulary.
type Vocabulary struct {
	predicates      map[string]rdf.IRI
	info            map[string]PredicateInfo
	typeRules       []TypeRule
	genders         map[string]string
	locationEmpty   map[string]bool
	relationEmpty   map[string]bool
	negativePhrases []string
	negativePairs   [][2]string
	heuristics      heuristics
}

type heuristics struct {
	biography []string
	modernBio []string
	place     []string
	film      []string
	book      []string
	game      []string
}

// NewVocabulary validates config and builds the lookup tables.
func NewVocabulary(config VocabularyConfig) (*Vocabulary, error) {
	v := &Vocabulary{
		predicates:      map[string]rdf.IRI{},
		info:            map[string]PredicateInfo{},
		genders:         map[string]string{},
		locationEmpty:   toSet(config.LocationEmptySignals),
		relationEmpty:   toSet(config.RelationEmptySignals),
		negativePhrases: lowerAll(config.NegativePhrases),
		heuristics: heuristics{
			biography: normalizeAll(config.Heuristics.Biography),
			modernBio: normalizeAll(config.Heuristics.ModernBiography),
			place:     normalizeAll(config.Heuristics.Place),
			film:      normalizeAll(config.Heuristics.Film),
			book:      normalizeAll(config.Heuristics.Book),
			game:      normalizeAll(config.Heuristics.Game),
		},
	}

	for _, p := range config.Predicates {
		iri, err := Expand(p.IRI)
		if err != nil {
			return nil, helper.NewError("expand predicate iri", err)
		}
		class, err := ParsePredicateClass(p.Class)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("predicate %s", p.IRI), err)
		}

		for _, key := range p.Keys {
			v.predicates[NormalizeKey(key)] = iri
		}

		info := v.info[iri.String()]
		info.IRI = iri
		if class != ClassGeneric || info.Class == ClassGeneric {
			info.Class = class
		}
		info.FirstOnly = info.FirstOnly || p.FirstOnly
		info.Structured = info.Structured || p.Structured
		v.info[iri.String()] = info
	}

	for _, t := range config.Types {
		iri, err := Expand(t.IRI)
		if err != nil {
			return nil, helper.NewError("expand type iri", err)
		}
		for _, key := range t.Keys {
			v.typeRules = append(v.typeRules, TypeRule{Key: NormalizeTemplateName(key), Type: iri})
		}
	}

	for raw, canonical := range config.Genders {
		v.genders[strings.ToLower(strings.TrimSpace(raw))] = canonical
	}

	for _, pair := range config.NegativePairs {
		if len(pair) != 2 {
			return nil, helper.NewError("negative pair", fmt.Errorf("expected two words, got %v", pair))
		}
		v.negativePairs = append(v.negativePairs, [2]string{strings.ToLower(pair[0]), strings.ToLower(pair[1])})
	}

	return v, nil
}

// NormalizeKey lowercases, trims and collapses whitespace. Underscores count as spaces.
func NormalizeKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	k = strings.ReplaceAll(k, "_", " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(k, " "))
}

// NormalizeTemplateName drops a leading or trailing "infobox" word.
func NormalizeTemplateName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = whitespaceRe.ReplaceAllString(n, " ")
	if n == "infobox" {
		return ""
	}
	n = strings.TrimPrefix(n, "infobox ")
	n = strings.TrimSuffix(n, " infobox")
	return strings.TrimSpace(n)
}

// MapPredicate returns the predicate for a raw field key. Unknown keys get a
// stable predicate in the ontology namespace derived from the key itself.
func (v *Vocabulary) MapPredicate(rawKey string) rdf.IRI {
	key := NormalizeKey(rawKey)
	if iri, ok := v.predicates[key]; ok {
		return iri
	}
	return mustIRI(KGOnt + Sanitize(key))
}

// Classify returns the emission policy of a predicate, Generic when unknown.
func (v *Vocabulary) Classify(predicate rdf.IRI) PredicateInfo {
	if info, ok := v.info[predicate.String()]; ok {
		return info
	}
	return PredicateInfo{IRI: predicate, Class: ClassGeneric}
}

// ChooseType infers the type of a record from its template name and,
// failing that, from the fields present.
func (v *Vocabulary) ChooseType(templateName string, fields model.Fields) rdf.IRI {
	key := NormalizeTemplateName(templateName)

	if key != "" {
		for _, rule := range v.typeRules {
			if rule.Key == key {
				return rule.Type
			}
		}
		for _, rule := range v.typeRules {
			if strings.Contains(key, rule.Key) {
				return rule.Type
			}
		}
	}

	present := map[string]bool{}
	for _, field := range fields {
		present[NormalizeKey(field.Key)] = true
	}
	hasAny := func(keys []string) bool {
		for _, k := range keys {
			if present[k] {
				return true
			}
		}
		return false
	}

	h := v.heuristics
	switch {
	case hasAny(h.biography) && hasAny(h.modernBio):
		return mustIRI(Schema + "Person")
	case hasAny(h.biography):
		return Character
	case hasAny(h.place):
		return Location
	case hasAny(h.film):
		return mustIRI(Schema + "CreativeWork")
	case hasAny(h.book):
		return mustIRI(Schema + "Book")
	case hasAny(h.game):
		return mustIRI(Schema + "VideoGame")
	default:
		return mustIRI(Schema + "CreativeWork")
	}
}

// Gender returns the canonical spelling of an allowed gender value.
func (v *Vocabulary) Gender(value string) (string, bool) {
	canonical, ok := v.genders[strings.ToLower(strings.TrimSpace(value))]
	return canonical, ok
}

// IsLocationEmpty reports values that mean "no location known".
func (v *Vocabulary) IsLocationEmpty(value string) bool {
	return v.locationEmpty[strings.ToLower(strings.TrimSpace(value))]
}

// IsRelationEmpty reports values that mean "no relation known".
func (v *Vocabulary) IsRelationEmpty(value string) bool {
	return v.relationEmpty[strings.ToLower(strings.TrimSpace(value))]
}

// IsNegativeRelation reports phrases that deny a relation, e.g. "never married".
func (v *Vocabulary) IsNegativeRelation(value string) bool {
	lower := strings.ToLower(value)
	for _, phrase := range v.negativePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	for _, pair := range v.negativePairs {
		if strings.Contains(lower, pair[0]) && strings.Contains(lower, pair[1]) {
			return true
		}
	}
	return false
}

// KindType returns the class used to materialize a resource of kind.
func KindType(kind model.ResourceKind) rdf.IRI {
	switch kind {
	case model.ResourceKindLocation:
		return Location
	case model.ResourceKindCharacter:
		return Character
	case model.ResourceKindHouse:
		return House
	default:
		return SchemaThing
	}
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = true
	}
	return set
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func normalizeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = NormalizeKey(v)
	}
	return out
}
