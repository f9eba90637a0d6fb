package pipeline

import (
	"fmt"
	"strings"

	"github.com/knakk/rdf"
	"github.com/siherrmann/wikigrapher/core/ontology"
	"github.com/siherrmann/wikigrapher/core/wikitext"
	"github.com/siherrmann/wikigrapher/export"
	"github.com/siherrmann/wikigrapher/model"
)

// RecordOutput holds the triples of one record and its embedded records.
type RecordOutput struct {
	Subject  rdf.IRI
	Subjects []rdf.IRI // the record subject and every embedded subject
	Triples  []rdf.Triple
	Skips    []model.SkipDecision
}

// EmitRecord emits the type, name and label of record followed by all of
// its fields. Embedded records are linked with schema:hasPart.
func (p *Pipeline) EmitRecord(record *model.InfoboxRecord, registry LabelRegistry) *RecordOutput {
	output := &RecordOutput{Subject: ontology.Resource(record.EntityTitle)}
	seen := map[string]bool{}
	p.emitRecord(output, output.Subject, record, record.EntityTitle, false, seen, registry)
	return output
}

func (p *Pipeline) emitRecord(output *RecordOutput, subject rdf.IRI, record *model.InfoboxRecord, label string, embedded bool, seen map[string]bool, registry LabelRegistry) {
	output.Subjects = append(output.Subjects, subject)

	add := func(triples ...rdf.Triple) {
		for _, triple := range triples {
			key := export.Key(triple)
			if seen[key] {
				continue
			}
			seen[key] = true
			output.Triples = append(output.Triples, triple)
		}
	}

	add(rdf.Triple{Subj: subject, Pred: ontology.RDFType, Obj: p.Vocabulary.ChooseType(record.TemplateName, record.Fields)})
	nameValue, nameField := p.recordName(record, label, embedded)
	if name, err := rdf.NewLiteral(nameValue); err == nil {
		add(rdf.Triple{Subj: subject, Pred: ontology.SchemaName, Obj: name})
	}
	if l, err := rdf.NewLiteral(label); err == nil && label != "" {
		add(rdf.Triple{Subj: subject, Pred: ontology.RDFSLabel, Obj: l})
	}

	for i, field := range record.Fields {
		// The title of an embedded record is its name and nothing else.
		if embedded && i == nameField && ontology.NormalizeKey(field.Key) == "title" {
			continue
		}
		predicate := p.Vocabulary.MapPredicate(field.Key)
		emission := p.Emitter.Emit(subject, predicate, field.Value, registry)
		if emission.Skip != model.SkipNone {
			output.Skips = append(output.Skips, model.SkipDecision{
				Field:     field.Key,
				Predicate: ontology.Compact(predicate.String()),
				Reason:    emission.Skip,
			})
		}
		add(emission.Triples...)
	}

	for i, part := range record.Embedded {
		childLabel := strings.TrimSpace(part.EntityTitle)
		if childLabel == "" {
			childLabel = fmt.Sprintf("part %d", i+1)
		}
		child := ontology.Resource(label + " " + childLabel)

		add(rdf.Triple{Subj: subject, Pred: ontology.SchemaHasPart, Obj: child})
		p.emitRecord(output, child, part, childLabel, true, seen, registry)
	}
}

// recordName is the cleaned value of the first field mapped to schema:name,
// or fallback when there is none. Embedded records also take their title field.
// The index of the field that supplied the name is -1 for the fallback.
func (p *Pipeline) recordName(record *model.InfoboxRecord, fallback string, embedded bool) (string, int) {
	for i, field := range record.Fields {
		isTitle := embedded && ontology.NormalizeKey(field.Key) == "title"
		if !isTitle && p.Vocabulary.MapPredicate(field.Key) != ontology.SchemaName {
			continue
		}
		if name := wikitext.FlattenSeparators(wikitext.StripLinks(wikitext.Clean(field.Value))); name != "" {
			return name, i
		}
	}
	return strings.TrimSpace(fallback), -1
}

// resolveOtherNames replaces other names values that only point to the
// "Other names" section of the page with the names listed there. Values
// stay unchanged when the page has no such list.
func (p *Pipeline) resolveOtherNames(record *model.InfoboxRecord, page string) {
	otherNames := ontology.KGOnt + "other_names"
	for i, field := range record.Fields {
		if p.Vocabulary.MapPredicate(field.Key).String() != otherNames || !wikitext.RefersToOtherNames(field.Value) {
			continue
		}
		if names := wikitext.OtherNames(page); len(names) > 0 {
			record.Fields[i].Value = strings.Join(names, wikitext.ValueSeparator)
		}
	}
}
