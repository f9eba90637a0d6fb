package pipeline

import (
	"sync"

	"github.com/knakk/rdf"
	"github.com/siherrmann/wikigrapher/model"
)

// LabelEntry is a linked resource with the first label it was seen with.
type LabelEntry struct {
	IRI   rdf.IRI
	Label string
	Kind  model.ResourceKind
}

// LabelIndex keeps the first label and kind of every linked resource in
// insertion order. It is safe for concurrent use.
type LabelIndex struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]LabelEntry
}

// NewLabelIndex creates an empty index.
func NewLabelIndex() *LabelIndex {
	return &LabelIndex{entries: map[string]LabelEntry{}}
}

// Register adds iri unless it is already known. The first label wins.
func (i *LabelIndex) Register(iri rdf.IRI, label string, kind model.ResourceKind) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.register(LabelEntry{IRI: iri, Label: label, Kind: kind})
}

// Merge registers entries in order.
func (i *LabelIndex) Merge(entries []LabelEntry) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, entry := range entries {
		i.register(entry)
	}
}

func (i *LabelIndex) register(entry LabelEntry) {
	key := entry.IRI.String()
	if _, ok := i.entries[key]; ok {
		return
	}
	if entry.Label == "" {
		entry.Label = key
	}
	i.order = append(i.order, key)
	i.entries[key] = entry
}

// Get returns the entry of iri.
func (i *LabelIndex) Get(iri rdf.IRI) (LabelEntry, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	entry, ok := i.entries[iri.String()]
	return entry, ok
}

// Len returns the number of registered resources.
func (i *LabelIndex) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.order)
}

// Entries returns a snapshot in insertion order.
func (i *LabelIndex) Entries() []LabelEntry {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]LabelEntry, 0, len(i.order))
	for _, key := range i.order {
		out = append(out, i.entries[key])
	}
	return out
}

// labelBuffer collects the registrations of a single page so that they can
// be merged into the shared index in page order.
type labelBuffer struct {
	entries []LabelEntry
}

func (b *labelBuffer) Register(iri rdf.IRI, label string, kind model.ResourceKind) {
	b.entries = append(b.entries, LabelEntry{IRI: iri, Label: label, Kind: kind})
}

// subjectSet is the set of primary subjects seen by the workers.
type subjectSet struct {
	mu  sync.Mutex
	set map[string]bool
}

func newSubjectSet() *subjectSet {
	return &subjectSet{set: map[string]bool{}}
}

func (s *subjectSet) add(iris ...rdf.IRI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, iri := range iris {
		s.set[iri.String()] = true
	}
}

func (s *subjectSet) has(iri rdf.IRI) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set[iri.String()]
}
