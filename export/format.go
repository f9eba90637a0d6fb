package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knakk/rdf"
	"github.com/munnerz/goautoneg"
)

// Format is a serialization of a triple set.
type Format struct {
	Name      string
	MediaType string
	Extension string
	rdf       rdf.Format
	readable  bool
}

var (
	Turtle   = Format{Name: "turtle", MediaType: "text/turtle", Extension: ".ttl", rdf: rdf.Turtle, readable: true}
	NTriples = Format{Name: "ntriples", MediaType: "application/n-triples", Extension: ".nt", rdf: rdf.NTriples, readable: true}
	JSONLD   = Format{Name: "jsonld", MediaType: "application/ld+json", Extension: ".jsonld"}
)

// Formats returns every supported format, Turtle first.
func Formats() []Format {
	return []Format{Turtle, NTriples, JSONLD}
}

// FormatByName looks up a format by name, media type or extension.
func FormatByName(name string) (Format, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, f := range Formats() {
		if n == f.Name || n == f.MediaType || n == f.Extension || "."+n == f.Extension {
			return f, nil
		}
	}
	switch n {
	case "ttl":
		return Turtle, nil
	case "nt", "n-triples":
		return NTriples, nil
	case "json-ld", "json":
		return JSONLD, nil
	}
	return Format{}, fmt.Errorf("unknown format %q", name)
}

// FormatForPath picks the format from the file extension of path.
func FormatForPath(path string) (Format, error) {
	return FormatByName(filepath.Ext(path))
}

// Negotiate picks the best of offers for an Accept header. An empty or
// wildcard header selects the first offer.
func Negotiate(accept string, offers ...Format) (Format, bool) {
	if len(offers) == 0 {
		offers = Formats()
	}
	if strings.TrimSpace(accept) == "" {
		return offers[0], true
	}

	alternatives := make([]string, len(offers))
	for i, f := range offers {
		alternatives[i] = f.MediaType
	}
	chosen := goautoneg.Negotiate(accept, alternatives)
	for _, f := range offers {
		if f.MediaType == chosen {
			return f, true
		}
	}
	return Format{}, false
}
