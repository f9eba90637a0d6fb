package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"

	"github.com/knakk/rdf"
	"github.com/siherrmann/wikigrapher/core/ontology"
	"github.com/siherrmann/wikigrapher/helper"
)

// Write serializes triples in format. Turtle output uses the known prefixes.
func Write(w io.Writer, triples []rdf.Triple, format Format) error {
	if format.Name == JSONLD.Name {
		return writeJSONLD(w, triples)
	}
	if !format.readable {
		return fmt.Errorf("unsupported format %q", format.Name)
	}
	if format.Name == Turtle.Name {
		return writeTurtle(w, triples)
	}
	return encode(w, triples, format, false)
}

// writeTurtle encodes triples whose terms all have plain local names with
// prefixes and the rest with full IRIs. The encoder does not escape local
// names, so a title such as "Sr." would otherwise end the statement early.
func writeTurtle(w io.Writer, triples []rdf.Triple) error {
	var prefixed, full []rdf.Triple
	for _, triple := range triples {
		if prefixable(triple.Subj) && prefixable(triple.Pred) && prefixable(triple.Obj) {
			prefixed = append(prefixed, triple)
		} else {
			full = append(full, triple)
		}
	}

	if err := encode(w, prefixed, Turtle, true); err != nil {
		return err
	}
	if len(prefixed) > 0 && len(full) > 0 {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return helper.NewError("encode triples", err)
		}
	}
	return encode(w, full, Turtle, false)
}

func encode(w io.Writer, triples []rdf.Triple, format Format, prefixes bool) error {
	if len(triples) == 0 {
		return nil
	}

	encoder := rdf.NewTripleEncoder(w, format.rdf)
	encoder.GenerateNamespaces = false
	if prefixes {
		for ns, prefix := range ontology.Prefixes {
			encoder.Namespaces[ns] = prefix
		}
	}
	// EncodeAll sorts its argument.
	sorted := append([]rdf.Triple(nil), triples...)
	if err := encoder.EncodeAll(sorted); err != nil {
		return helper.NewError("encode triples", err)
	}
	if err := encoder.Close(); err != nil {
		return helper.NewError("flush triples", err)
	}
	return nil
}

var localNameRe = regexp.MustCompile(`^[A-Za-z0-9_]([A-Za-z0-9_.-]*[A-Za-z0-9_-])?$`)

// prefixable reports whether term can be written as prefix:local and read
// back unchanged. IRIs outside the known namespaces are always written in full.
func prefixable(term rdf.Term) bool {
	var iri rdf.IRI
	switch t := term.(type) {
	case rdf.IRI:
		iri = t
	case rdf.Literal:
		iri = t.DataType
	default:
		return true
	}

	ns, local := iri.Split()
	if _, ok := ontology.Prefixes[ns]; !ok {
		return true
	}
	return localNameRe.MatchString(local)
}

// WriteFile writes triples to path, the format follows the extension.
func WriteFile(path string, triples []rdf.Triple) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return helper.NewError("create output file", err)
	}
	defer file.Close()

	if err := Write(file, triples, format); err != nil {
		return err
	}
	return file.Sync()
}

// Read parses Turtle or N-Triples.
func Read(r io.Reader, format Format) ([]rdf.Triple, error) {
	if !format.readable {
		return nil, fmt.Errorf("cannot read format %q", format.Name)
	}
	triples, err := rdf.NewTripleDecoder(r, format.rdf).DecodeAll()
	if err != nil {
		return nil, helper.NewError("decode triples", err)
	}
	return triples, nil
}

// ReadFile reads a graph file, the format follows the extension.
func ReadFile(path string) ([]rdf.Triple, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, helper.NewError("open graph file", err)
	}
	defer file.Close()

	return Read(file, format)
}

type jsonLDValue struct {
	ID       string `json:"@id,omitempty"`
	Value    string `json:"@value,omitempty"`
	Language string `json:"@language,omitempty"`
	Type     string `json:"@type,omitempty"`
}

// writeJSONLD writes one node per subject in first-seen order with compact
// predicate names. Objects are always arrays.
func writeJSONLD(w io.Writer, triples []rdf.Triple) error {
	context := map[string]string{}
	for ns, prefix := range ontology.Prefixes {
		context[prefix] = ns
	}

	var order []string
	nodes := map[string]map[string]any{}
	for _, triple := range triples {
		subject := ontology.Compact(triple.Subj.String())
		node, ok := nodes[subject]
		if !ok {
			node = map[string]any{"@id": subject}
			nodes[subject] = node
			order = append(order, subject)
		}

		predicate := ontology.Compact(triple.Pred.String())
		values, _ := node[predicate].([]jsonLDValue)
		node[predicate] = append(values, jsonLDObject(triple.Obj))
	}

	graph := make([]map[string]any, 0, len(order))
	for _, subject := range order {
		graph = append(graph, nodes[subject])
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(map[string]any{"@context": context, "@graph": graph}); err != nil {
		return helper.NewError("encode json-ld", err)
	}
	return nil
}

func jsonLDObject(object rdf.Object) jsonLDValue {
	switch o := object.(type) {
	case rdf.IRI:
		return jsonLDValue{ID: ontology.Compact(o.String())}
	case rdf.Literal:
		value := jsonLDValue{Value: o.String(), Language: o.Lang()}
		if dt := o.DataType.String(); value.Language == "" && dt != ontology.XSD+"string" && dt != "" {
			value.Type = ontology.Compact(dt)
		}
		return value
	default:
		return jsonLDValue{ID: object.String()}
	}
}

// Subjects returns the distinct subjects of triples in first-seen order.
func Subjects(triples []rdf.Triple) []string {
	seen := map[string]bool{}
	var out []string
	for _, triple := range triples {
		if s := triple.Subj.String(); !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Predicates counts triples per compact predicate name, sorted by name.
func Predicates(triples []rdf.Triple) []PredicateCount {
	counts := map[string]int{}
	for _, triple := range triples {
		counts[ontology.Compact(triple.Pred.String())]++
	}
	out := make([]PredicateCount, 0, len(counts))
	for predicate, count := range counts {
		out = append(out, PredicateCount{Predicate: predicate, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Predicate < out[j].Predicate })
	return out
}

// PredicateCount is one row of Predicates.
type PredicateCount struct {
	Predicate string `json:"predicate"`
	Count     int    `json:"count"`
}
