package graph

import (
	"context"
	"slices"

	"github.com/siherrmann/wikigrapher/core/ontology"
	"github.com/siherrmann/wikigrapher/model"
)

// GraphDB defines the interface for graph operations
type GraphDB interface {
	GetResource(ctx context.Context, iri string) (*model.Resource, error)
	// GetLinks returns the triples with iri as subject, and with iri as
	// object too when followIncoming is set.
	GetLinks(ctx context.Context, iri string, followIncoming bool) ([]*model.StoredTriple, error)
}

// TraversalResult contains a resource and its distance from the source
type TraversalResult struct {
	Resource *model.Resource
	Distance int
	Path     []string            // IRIs from source to this resource
	Via      *model.StoredTriple // The triple that reached the resource, nil for the source
}

// BFS performs breadth-first search from a source resource.
// Only links with one of predicates are followed, all links if predicates is empty.
// rdf:type links point into the ontology and are never followed.
func BFS(ctx context.Context, db GraphDB, sourceIRI string, maxHops int, predicates []string, followIncoming bool) ([]*TraversalResult, error) {
	source, err := db.GetResource(ctx, sourceIRI)
	if err != nil {
		return nil, err
	}

	visited := map[string]bool{sourceIRI: true}
	queue := []*TraversalResult{{
		Resource: source,
		Distance: 0,
		Path:     []string{sourceIRI},
	}}

	var results []*TraversalResult
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := queue[0]
		queue = queue[1:]
		results = append(results, current)

		if current.Distance >= maxHops {
			continue
		}

		links, err := db.GetLinks(ctx, current.Resource.IRI, followIncoming)
		if err != nil {
			return nil, err
		}

		for _, link := range links {
			targetIRI, ok := linkTarget(link, current.Resource.IRI, predicates, followIncoming)
			if !ok || visited[targetIRI] {
				continue
			}

			target, err := db.GetResource(ctx, targetIRI)
			if err != nil {
				continue // Skip links to resources that were never stored
			}
			visited[targetIRI] = true

			queue = append(queue, &TraversalResult{
				Resource: target,
				Distance: current.Distance + 1,
				Path:     append(slices.Clone(current.Path), targetIRI),
				Via:      link,
			})
		}
	}

	return results, nil
}

// DFS performs depth-first search from a source resource
func DFS(ctx context.Context, db GraphDB, sourceIRI string, maxHops int, predicates []string, followIncoming bool) ([]*TraversalResult, error) {
	source, err := db.GetResource(ctx, sourceIRI)
	if err != nil {
		return nil, err
	}

	walker := &dfsWalker{
		db:             db,
		maxHops:        maxHops,
		predicates:     predicates,
		followIncoming: followIncoming,
		visited:        map[string]bool{},
	}
	err = walker.walk(ctx, &TraversalResult{Resource: source, Path: []string{sourceIRI}})
	if err != nil {
		return nil, err
	}

	return walker.results, nil
}

type dfsWalker struct {
	db             GraphDB
	maxHops        int
	predicates     []string
	followIncoming bool
	visited        map[string]bool
	results        []*TraversalResult
}

func (w *dfsWalker) walk(ctx context.Context, current *TraversalResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.visited[current.Resource.IRI] = true
	w.results = append(w.results, current)

	if current.Distance >= w.maxHops {
		return nil
	}

	links, err := w.db.GetLinks(ctx, current.Resource.IRI, w.followIncoming)
	if err != nil {
		return nil
	}

	for _, link := range links {
		targetIRI, ok := linkTarget(link, current.Resource.IRI, w.predicates, w.followIncoming)
		if !ok || w.visited[targetIRI] {
			continue
		}

		target, err := w.db.GetResource(ctx, targetIRI)
		if err != nil {
			continue
		}

		err = w.walk(ctx, &TraversalResult{
			Resource: target,
			Distance: current.Distance + 1,
			Path:     append(slices.Clone(current.Path), targetIRI),
			Via:      link,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// GetNeighbors retrieves immediate neighbors (1-hop) of a resource
func GetNeighbors(ctx context.Context, db GraphDB, iri string, predicates []string, followIncoming bool) ([]*TraversalResult, error) {
	results, err := BFS(ctx, db, iri, 1, predicates, followIncoming)
	if err != nil {
		return nil, err
	}

	// Skip the source itself
	return results[1:], nil
}

// linkTarget returns the resource on the other end of link, seen from current.
func linkTarget(link *model.StoredTriple, current string, predicates []string, followIncoming bool) (string, bool) {
	if !link.IsLink() || link.Predicate == ontology.RDFType.String() {
		return "", false
	}
	if len(predicates) > 0 && !slices.Contains(predicates, link.Predicate) {
		return "", false
	}

	switch {
	case link.Subject == current:
		return link.Object, true
	case followIncoming && link.Object == current:
		return link.Subject, true
	default:
		return "", false
	}
}
