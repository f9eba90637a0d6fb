package retrieval

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/siherrmann/wikigrapher/core/graph"
	"github.com/siherrmann/wikigrapher/core/pipeline"
	"github.com/siherrmann/wikigrapher/database"
	"github.com/siherrmann/wikigrapher/export"
	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/model"
)

const (
	defaultLimit  = 100
	maxLimit      = 1000
	incomingLimit = 200
)

// Engine reads the stored graph: resource descriptions, label and vector
// search, and traversal over resource links.
type Engine struct {
	pages     database.PagesDBHandlerFunctions
	triples   database.TriplesDBHandlerFunctions
	resources database.ResourcesDBHandlerFunctions
	embed     pipeline.EmbedFunc // Optional, enables vector search by text
}

// NewEngine creates a new retrieval engine
func NewEngine(pages database.PagesDBHandlerFunctions, triples database.TriplesDBHandlerFunctions, resources database.ResourcesDBHandlerFunctions) *Engine {
	return &Engine{
		pages:     pages,
		triples:   triples,
		resources: resources,
	}
}

// SetEmbedder sets the function used to embed search text
func (e *Engine) SetEmbedder(embed pipeline.EmbedFunc) {
	e.embed = embed
}

// GetResource returns the stored resource. A subject that only exists as
// triples is rebuilt from its outgoing triples.
func (e *Engine) GetResource(ctx context.Context, iri string) (*model.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resource, err := e.resources.SelectResource(iri)
	if err == nil {
		return resource, nil
	}
	if !errors.Is(err, model.ErrResourceNotFound) {
		return nil, err
	}

	outgoing, err := e.triples.SelectTriplesBySubject(iri)
	if err != nil {
		return nil, err
	}
	if len(outgoing) == 0 {
		return nil, helper.NewError(fmt.Sprintf("get resource %s", iri), model.ErrResourceNotFound)
	}
	return export.ResourceFromTriples(iri, outgoing), nil
}

// GetLinks returns the triples of iri as subject, and as object when followIncoming is set.
func (e *Engine) GetLinks(ctx context.Context, iri string, followIncoming bool) ([]*model.StoredTriple, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	links, err := e.triples.SelectTriplesBySubject(iri)
	if err != nil {
		return nil, err
	}
	if followIncoming {
		incoming, err := e.triples.SelectTriplesByObject(iri, incomingLimit)
		if err != nil {
			return nil, err
		}
		links = append(links, incoming...)
	}
	return links, nil
}

// Describe returns a resource with its outgoing and incoming triples
func (e *Engine) Describe(ctx context.Context, iri string) (*model.ResourceDescription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outgoing, err := e.triples.SelectTriplesBySubject(iri)
	if err != nil {
		return nil, helper.NewError("select outgoing", err)
	}
	incoming, err := e.triples.SelectTriplesByObject(iri, incomingLimit)
	if err != nil {
		return nil, helper.NewError("select incoming", err)
	}
	if len(outgoing) == 0 && len(incoming) == 0 {
		return nil, helper.NewError(fmt.Sprintf("describe %s", iri), model.ErrResourceNotFound)
	}

	resource, err := e.resources.SelectResource(iri)
	if err != nil {
		resource = export.ResourceFromTriples(iri, outgoing)
	}

	return &model.ResourceDescription{
		Resource: resource,
		Outgoing: outgoing,
		Incoming: incoming,
	}, nil
}

// ListByType returns resources of a type ordered by label
func (e *Engine) ListByType(ctx context.Context, typeIRI string, limit int) ([]*model.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.resources.SelectResourcesByType(typeIRI, normalizeLimit(limit))
}

// SearchByLabel returns resources whose label contains text
func (e *Engine) SearchByLabel(ctx context.Context, text string, limit int) ([]*model.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.resources.SearchResources(text, normalizeLimit(limit))
}

// VectorRetrieve performs pure vector similarity search over label embeddings
func (e *Engine) VectorRetrieve(ctx context.Context, embedding []float32, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resources, err := e.resources.SelectResourcesBySimilarity(embedding, config.TopK, config.SimilarityThreshold)
	if err != nil {
		return nil, err
	}

	results := make([]*model.RetrievalResult, 0, len(resources))
	for _, resource := range resources {
		if !matchesType(resource, config.TypeIRIs) {
			continue
		}
		score := 0.0
		if resource.Similarity != nil {
			score = *resource.Similarity
		}
		results = append(results, &model.RetrievalResult{
			Resource:        resource,
			Score:           score,
			SimilarityScore: score,
			GraphDistance:   0,
			RetrievalMethod: MethodVector,
		})
	}

	return results, nil
}

// Neighbors returns the resources within config.MaxHops links of iri, nearest first.
func (e *Engine) Neighbors(ctx context.Context, iri string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	maxHops := max(config.MaxHops, 1)
	traversed, err := graph.BFS(ctx, e, iri, maxHops, config.Predicates, config.FollowIncoming)
	if err != nil {
		return nil, err
	}

	var results []*model.RetrievalResult
	for _, node := range traversed[1:] {
		if !matchesType(node.Resource, config.TypeIRIs) {
			continue
		}
		result := &model.RetrievalResult{
			Resource:        node.Resource,
			Score:           1 / float64(node.Distance),
			GraphDistance:   node.Distance,
			RetrievalMethod: MethodGraph,
		}
		if node.Via != nil {
			result.Triples = []*model.StoredTriple{node.Via}
		}
		results = append(results, result)
	}
	return results, nil
}

// Stats summarizes the stored graph
func (e *Engine) Stats(ctx context.Context) (*model.GraphStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byStatus, err := e.pages.CountPagesByStatus()
	if err != nil {
		return nil, helper.NewError("count pages", err)
	}
	triples, err := e.triples.CountTriples()
	if err != nil {
		return nil, helper.NewError("count triples", err)
	}
	resources, err := e.resources.CountResources()
	if err != nil {
		return nil, helper.NewError("count resources", err)
	}

	stats := &model.GraphStats{
		Triples:   triples,
		Resources: resources,
		ByStatus:  byStatus,
	}
	for _, count := range byStatus {
		stats.Pages += count
	}
	return stats, nil
}

func matchesType(resource *model.Resource, typeIRIs []string) bool {
	return len(typeIRIs) == 0 || slices.Contains(typeIRIs, resource.TypeIRI)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return min(limit, maxLimit)
}
