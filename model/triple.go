package model

import (
	"time"

	"github.com/google/uuid"
)

// ObjectKind tells whether a stored object is an IRI or a literal.
type ObjectKind string

const (
	ObjectKindIRI     ObjectKind = "iri"
	ObjectKindLiteral ObjectKind = "literal"
)

// StoredTriple is the database row of a triple.
type StoredTriple struct {
	ID         int64      `json:"id"`
	RID        uuid.UUID  `json:"rid"`
	PageRID    *uuid.UUID `json:"page_rid,omitempty"`
	Subject    string     `json:"subject"`
	Predicate  string     `json:"predicate"`
	Object     string     `json:"object"`
	ObjectKind ObjectKind `json:"object_kind"`
	Lang       string     `json:"lang,omitempty"`
	Datatype   string     `json:"datatype,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// IsLink is true when the object points at another resource.
func (t *StoredTriple) IsLink() bool {
	return t.ObjectKind == ObjectKindIRI
}

// TraversalNode is a resource reached during a graph walk.
type TraversalNode struct {
	IRI   string   `json:"iri"`
	Depth int      `json:"depth"`
	Path  []string `json:"path"`
}
