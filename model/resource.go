package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ResourceKind is the class used when a resource is materialized
// from a link instead of its own page.
type ResourceKind string

const (
	ResourceKindThing     ResourceKind = "thing"
	ResourceKindLocation  ResourceKind = "location"
	ResourceKindCharacter ResourceKind = "character"
	ResourceKindHouse     ResourceKind = "house"
)

// ErrResourceNotFound is returned when no triple mentions a resource.
var ErrResourceNotFound = errors.New("resource not found")

// Resource is a graph node with its best known label.
type Resource struct {
	ID         int64     `json:"id"`
	RID        uuid.UUID `json:"rid"`
	IRI        string    `json:"iri"`
	Label      string    `json:"label"`
	TypeIRI    string    `json:"type_iri,omitempty"`
	Primary    bool      `json:"primary"`
	Embedding  []float32 `json:"embedding,omitempty"`
	Metadata   Metadata  `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	Similarity *float64  `json:"similarity,omitempty" db:"-"`
}
