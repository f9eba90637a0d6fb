package export

import (
	"fmt"
	"log/slog"

	"github.com/knakk/rdf"
	"github.com/siherrmann/wikigrapher/core/ontology"
	"github.com/siherrmann/wikigrapher/helper"
)

// Key identifies a triple by its N-Triples form.
func Key(triple rdf.Triple) string {
	return triple.Subj.Serialize(rdf.NTriples) + " " +
		triple.Pred.Serialize(rdf.NTriples) + " " +
		triple.Obj.Serialize(rdf.NTriples)
}

// Dedupe drops repeated triples and keeps the first occurrence.
func Dedupe(sets ...[]rdf.Triple) []rdf.Triple {
	seen := map[string]bool{}
	var out []rdf.Triple
	for _, triples := range sets {
		for _, triple := range triples {
			key := Key(triple)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, triple)
		}
	}
	return out
}

// Merge reads several graph files and returns their union in first-seen order.
func Merge(logger *slog.Logger, paths ...string) ([]rdf.Triple, error) {
	sets := make([][]rdf.Triple, 0, len(paths))
	total := 0
	for _, path := range paths {
		triples, err := ReadFile(path)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("merge %s", path), err)
		}
		total += len(triples)
		sets = append(sets, triples)
	}

	merged := Dedupe(sets...)
	if logger != nil {
		logger.Info("Merged graph files",
			slog.Int("files", len(paths)),
			slog.Int("read", total),
			slog.Int("merged", len(merged)),
		)
	}
	return merged, nil
}

// AddEnglishLabels adds rdfs:label "name"@en for every subject that has a
// schema:name but no English label yet.
func AddEnglishLabels(triples []rdf.Triple) []rdf.Triple {
	names := map[string]string{}
	var order []string
	labelled := map[string]bool{}

	for _, triple := range triples {
		subject := triple.Subj.String()
		literal, ok := triple.Obj.(rdf.Literal)
		if !ok {
			continue
		}
		switch triple.Pred.String() {
		case ontology.SchemaName.String():
			if _, seen := names[subject]; !seen {
				names[subject] = literal.String()
				order = append(order, subject)
			}
		case ontology.RDFSLabel.String():
			if literal.Lang() == "en" {
				labelled[subject] = true
			}
		}
	}

	out := append([]rdf.Triple{}, triples...)
	for _, subject := range order {
		if labelled[subject] || names[subject] == "" {
			continue
		}
		iri, err := rdf.NewIRI(subject)
		if err != nil {
			continue
		}
		label, err := rdf.NewLangLiteral(names[subject], "en")
		if err != nil {
			continue
		}
		out = append(out, rdf.Triple{Subj: iri, Pred: ontology.RDFSLabel, Obj: label})
	}
	return out
}
