package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/knakk/rdf"
	"github.com/siherrmann/wikigrapher/core/ontology"
	"github.com/siherrmann/wikigrapher/core/wikitext"
	"github.com/siherrmann/wikigrapher/model"
)

var (
	literalSegmentRe = regexp.MustCompile(`\s*[,;/]\s*|\s+and\s+|\n+`)
	familyTokenRe    = regexp.MustCompile(`[;,/]| and `)
	urlRe            = regexp.MustCompile(`https?://[^\s\]|<>"]+`)
)

// LabelRegistry receives the resources an emission links to.
type LabelRegistry interface {
	Register(iri rdf.IRI, label string, kind model.ResourceKind)
}

// Emission is the outcome of one field value. Either Triples is non-empty
// or Skip tells why nothing was emitted.
type Emission struct {
	Triples []rdf.Triple
	Skip    model.SkipReason
}

// Emitter turns raw field values into triples according to the class of
// their predicate.
type Emitter struct {
	vocabulary *ontology.Vocabulary
}

// NewEmitter creates an emitter for the given vocabulary.
func NewEmitter(vocabulary *ontology.Vocabulary) *Emitter {
	if vocabulary == nil {
		vocabulary = ontology.DefaultVocabulary()
	}
	return &Emitter{vocabulary: vocabulary}
}

// Emit converts one raw field value. Linked resources are registered on
// registry, which may be nil.
func (e *Emitter) Emit(subject, predicate rdf.IRI, raw string, registry LabelRegistry) Emission {
	if registry == nil {
		registry = discardRegistry{}
	}

	info := e.vocabulary.Classify(predicate)
	if strings.TrimSpace(raw) == "" {
		return Emission{Skip: model.SkipEmptySignal}
	}

	out := &emission{subject: subject, predicate: predicate, seen: map[string]bool{}}
	switch info.Class {
	case ontology.ClassLiteral:
		e.emitLiteral(out, raw, info)
	case ontology.ClassLocation:
		e.emitLocation(out, raw, registry)
	case ontology.ClassRelation:
		e.emitRelation(out, raw, info, registry)
	case ontology.ClassGender:
		e.emitGender(out, raw)
	case ontology.ClassFamily:
		e.emitFamily(out, raw, registry)
	case ontology.ClassURL:
		e.emitURL(out, raw, registry)
	default:
		e.emitGeneric(out, raw, registry)
	}

	if len(out.triples) == 0 && out.skip == model.SkipNone {
		if plainText(wikitext.Clean(raw)) == "" {
			out.skip = model.SkipEmptySignal
		} else {
			out.literal(strings.TrimSpace(raw))
		}
	}

	return Emission{Triples: out.triples, Skip: out.skip}
}

func (e *Emitter) emitLiteral(out *emission, raw string, info ontology.PredicateInfo) {
	linkless := wikitext.StripLinks(raw)

	if info.Structured {
		preserved := wikitext.CleanPreserving(linkless)
		if wikitext.HasTimeline(preserved) {
			out.literal(preserved)
			return
		}
	}

	cleaned := wikitext.Clean(linkless)
	for _, part := range wikitext.SplitValues(cleaned) {
		for _, segment := range literalSegmentRe.Split(part, -1) {
			segment = strings.TrimSpace(segment)
			if utf8.RuneCountInString(segment) > 1 {
				out.literal(segment)
			}
		}
	}

	if len(out.triples) == 0 {
		out.literal(wikitext.FlattenSeparators(cleaned))
	}
}

func (e *Emitter) emitLocation(out *emission, raw string, registry LabelRegistry) {
	cleaned := wikitext.Clean(raw)
	if e.vocabulary.IsLocationEmpty(plainText(cleaned)) {
		out.skip = model.SkipEmptySignal
		return
	}

	links := wikitext.Links(cleaned)
	if len(links) == 0 {
		out.skip = model.SkipNoLinks
		return
	}
	for _, link := range links {
		out.resource(link.Target, link.Label, model.ResourceKindLocation, registry)
	}
}

func (e *Emitter) emitRelation(out *emission, raw string, info ontology.PredicateInfo, registry LabelRegistry) {
	cleaned := wikitext.Clean(raw)
	plain := plainText(cleaned)

	switch {
	case e.vocabulary.IsRelationEmpty(plain):
		out.skip = model.SkipEmptySignal
		return
	case e.vocabulary.IsNegativeRelation(plain):
		out.skip = model.SkipNegativeRelation
		return
	}

	links := wikitext.Links(cleaned)
	if len(links) == 0 {
		out.skip = model.SkipNoLinks
		return
	}
	if info.FirstOnly {
		links = links[:1]
	}
	for _, link := range links {
		out.resource(link.Target, link.Label, model.ResourceKindCharacter, registry)
	}
}

func (e *Emitter) emitGender(out *emission, raw string) {
	value := plainText(wikitext.Clean(wikitext.StripLinks(raw)))
	gender, ok := e.vocabulary.Gender(value)
	if !ok {
		out.skip = model.SkipGenderNotAllowed
		return
	}
	out.literal(gender)
}

func (e *Emitter) emitFamily(out *emission, raw string, registry LabelRegistry) {
	cleaned := wikitext.Clean(raw)

	if links := wikitext.Links(cleaned); len(links) > 0 {
		for _, link := range links {
			out.resource(link.Target, link.Label, model.ResourceKindHouse, registry)
		}
		return
	}

	for _, token := range familyTokenRe.Split(plainText(cleaned), -1) {
		if token = strings.TrimSpace(token); token != "" {
			out.resource(token, token, model.ResourceKindHouse, registry)
		}
	}
}

func (e *Emitter) emitURL(out *emission, raw string, registry LabelRegistry) {
	if url := urlRe.FindString(raw); url != "" {
		out.add(rdf.NewTypedLiteral(url, ontology.XSDAnyURI))
		return
	}
	e.emitGeneric(out, raw, registry)
}

func (e *Emitter) emitGeneric(out *emission, raw string, registry LabelRegistry) {
	cleaned := wikitext.Clean(raw)

	if wikitext.OnlyLinks(cleaned) {
		for _, link := range wikitext.Links(cleaned) {
			out.resource(link.Target, link.Target, model.ResourceKindThing, registry)
		}
		return
	}

	if value := plainText(cleaned); value != "" {
		out.literal(value)
	}
}

// plainText rewrites links to labels and joins separated values.
func plainText(cleaned string) string {
	return wikitext.FlattenSeparators(wikitext.StripLinks(cleaned))
}

type emission struct {
	subject   rdf.IRI
	predicate rdf.IRI
	triples   []rdf.Triple
	skip      model.SkipReason
	seen      map[string]bool
}

func (e *emission) add(object rdf.Object) {
	key := object.Serialize(rdf.NTriples)
	if e.seen[key] {
		return
	}
	e.seen[key] = true
	e.triples = append(e.triples, rdf.Triple{Subj: e.subject, Pred: e.predicate, Obj: object})
}

func (e *emission) literal(value string) {
	if value == "" {
		return
	}
	literal, err := rdf.NewLiteral(value)
	if err != nil {
		return
	}
	e.add(literal)
}

func (e *emission) resource(title, label string, kind model.ResourceKind, registry LabelRegistry) {
	iri := ontology.Resource(title)
	e.add(iri)
	registry.Register(iri, strings.TrimSpace(label), kind)
}

type discardRegistry struct{}

func (discardRegistry) Register(rdf.IRI, string, model.ResourceKind) {}
