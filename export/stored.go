package export

import (
	"fmt"

	"github.com/knakk/rdf"
	"github.com/siherrmann/wikigrapher/core/ontology"
	"github.com/siherrmann/wikigrapher/model"
)

// ToStored converts a triple to its database row.
func ToStored(triple rdf.Triple) *model.StoredTriple {
	stored := &model.StoredTriple{
		Subject:    triple.Subj.String(),
		Predicate:  triple.Pred.String(),
		Object:     triple.Obj.String(),
		ObjectKind: model.ObjectKindIRI,
	}
	if literal, ok := triple.Obj.(rdf.Literal); ok {
		stored.ObjectKind = model.ObjectKindLiteral
		stored.Lang = literal.Lang()
		if stored.Lang == "" {
			stored.Datatype = literal.DataType.String()
		}
	}
	return stored
}

// FromStored converts a database row back to a triple.
func FromStored(stored *model.StoredTriple) (rdf.Triple, error) {
	subject, err := rdf.NewIRI(stored.Subject)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("subject: %w", err)
	}
	predicate, err := rdf.NewIRI(stored.Predicate)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("predicate: %w", err)
	}

	var object rdf.Object
	switch {
	case stored.ObjectKind == model.ObjectKindIRI:
		object, err = rdf.NewIRI(stored.Object)
	case stored.Lang != "":
		object, err = rdf.NewLangLiteral(stored.Object, stored.Lang)
	case stored.Datatype != "" && stored.Datatype != ontology.XSD+"string":
		var datatype rdf.IRI
		if datatype, err = rdf.NewIRI(stored.Datatype); err == nil {
			object = rdf.NewTypedLiteral(stored.Object, datatype)
		}
	default:
		object, err = rdf.NewLiteral(stored.Object)
	}
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("object: %w", err)
	}

	return rdf.Triple{Subj: subject, Pred: predicate, Obj: object}, nil
}

// FromStoredAll converts rows and skips the ones that are not valid RDF.
func FromStoredAll(stored []*model.StoredTriple) []rdf.Triple {
	triples := make([]rdf.Triple, 0, len(stored))
	for _, s := range stored {
		if triple, err := FromStored(s); err == nil {
			triples = append(triples, triple)
		}
	}
	return triples
}

// ResourceFromTriples builds a resource from its outgoing triples. The
// English rdfs:label wins over a plain one, schema:name is the fallback.
func ResourceFromTriples(iri string, outgoing []*model.StoredTriple) *model.Resource {
	resource := &model.Resource{IRI: iri}
	var plainLabel, name string
	for _, t := range outgoing {
		switch t.Predicate {
		case ontology.RDFType.String():
			if resource.TypeIRI == "" {
				resource.TypeIRI = t.Object
			}
		case ontology.RDFSLabel.String():
			if t.Lang == "en" && resource.Label == "" {
				resource.Label = t.Object
			} else if plainLabel == "" {
				plainLabel = t.Object
			}
		case ontology.SchemaName.String():
			if name == "" {
				name = t.Object
			}
		}
	}

	for _, candidate := range []string{resource.Label, plainLabel, name, ontology.Compact(iri)} {
		if candidate != "" {
			resource.Label = candidate
			break
		}
	}
	return resource
}
