package ontology

import (
	"fmt"
	"strings"

	"github.com/knakk/rdf"
)

const (
	KGOnt  = "http://tolkien-kg.org/ontology/"
	KGRes  = "http://tolkien-kg.org/resource/"
	Schema = "http://schema.org/"
	RDF    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS   = "http://www.w3.org/2000/01/rdf-schema#"
	XSD    = "http://www.w3.org/2001/XMLSchema#"
)

// Prefixes maps namespace IRIs to the prefixes used in Turtle output.
var Prefixes = map[string]string{
	KGOnt:  "kg-ont",
	KGRes:  "kg-res",
	Schema: "schema",
	RDF:    "rdf",
	RDFS:   "rdfs",
	XSD:    "xsd",
}

var (
	RDFType       = mustIRI(RDF + "type")
	RDFSLabel     = mustIRI(RDFS + "label")
	SchemaName    = mustIRI(Schema + "name")
	SchemaHasPart = mustIRI(Schema + "hasPart")
	SchemaThing   = mustIRI(Schema + "Thing")
	Character     = mustIRI(KGOnt + "Character")
	Location      = mustIRI(KGOnt + "Location")
	House         = mustIRI(KGOnt + "House")
	XSDAnyURI     = mustIRI(XSD + "anyURI")
)

// Resource returns the resource IRI for a human readable title.
func Resource(title string) rdf.IRI {
	return mustIRI(KGRes + Sanitize(title))
}

// Expand turns a prefixed name such as "schema:name" into a full IRI.
// Full IRIs are returned unchanged.
func Expand(name string) (rdf.IRI, error) {
	name = strings.TrimSpace(name)
	if prefix, local, ok := strings.Cut(name, ":"); ok && !strings.HasPrefix(local, "//") {
		for ns, p := range Prefixes {
			if p == prefix {
				return rdf.NewIRI(ns + local)
			}
		}
		return rdf.IRI{}, fmt.Errorf("unknown prefix %q in %q", prefix, name)
	}
	return rdf.NewIRI(name)
}

// Compact renders an IRI with a known prefix, or unchanged.
func Compact(iri string) string {
	for ns, p := range Prefixes {
		if strings.HasPrefix(iri, ns) {
			return p + ":" + strings.TrimPrefix(iri, ns)
		}
	}
	return iri
}

// mustIRI is only used on constants and sanitized local names, which are always valid.
func mustIRI(s string) rdf.IRI {
	iri, err := rdf.NewIRI(s)
	if err != nil {
		panic(fmt.Sprintf("invalid IRI %q: %v", s, err))
	}
	return iri
}
