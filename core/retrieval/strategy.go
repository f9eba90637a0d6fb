package retrieval

import (
	"context"
	"fmt"

	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/model"
)

// Retrieval methods reported on results
const (
	MethodLabel  = "label"
	MethodVector = "vector"
	MethodGraph  = "graph"
)

// Strategy defines a retrieval strategy
type Strategy interface {
	Retrieve(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error)
}

// LabelStrategy matches the query against resource labels
type LabelStrategy struct {
	engine *Engine
}

// NewLabelStrategy creates a new label strategy
func NewLabelStrategy(engine *Engine) *LabelStrategy {
	return &LabelStrategy{engine: engine}
}

// Retrieve scores label matches by rank, the best match scores 1.
func (s *LabelStrategy) Retrieve(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	resources, err := s.engine.SearchByLabel(ctx, query, config.TopK)
	if err != nil {
		return nil, err
	}

	results := make([]*model.RetrievalResult, 0, len(resources))
	for i, resource := range resources {
		if !matchesType(resource, config.TypeIRIs) {
			continue
		}
		results = append(results, &model.RetrievalResult{
			Resource:        resource,
			Score:           1 / float64(i+1),
			RetrievalMethod: MethodLabel,
		})
	}
	return results, nil
}

// VectorStrategy embeds the query and searches label embeddings
type VectorStrategy struct {
	engine *Engine
}

// NewVectorStrategy creates a new vector strategy
func NewVectorStrategy(engine *Engine) *VectorStrategy {
	return &VectorStrategy{engine: engine}
}

// Retrieve fails if the engine has no embedder.
func (s *VectorStrategy) Retrieve(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	if s.engine.embed == nil {
		return nil, helper.NewError("vector retrieve", fmt.Errorf("no embedder set, use SetEmbedder() first"))
	}

	embedding, err := s.engine.embed(query)
	if err != nil {
		return nil, helper.NewError("embed query", err)
	}
	return s.engine.VectorRetrieve(ctx, embedding, config)
}

// NeighborhoodStrategy expands the results of a seed strategy with the
// resources linked to them.
type NeighborhoodStrategy struct {
	engine *Engine
	seed   Strategy
}

// NewNeighborhoodStrategy creates a new neighborhood strategy around seed
func NewNeighborhoodStrategy(engine *Engine, seed Strategy) *NeighborhoodStrategy {
	return &NeighborhoodStrategy{engine: engine, seed: seed}
}

// Retrieve scores a neighbor with the seed score times GraphWeight divided by its distance.
// A resource keeps its best score.
func (s *NeighborhoodStrategy) Retrieve(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	seeds, err := s.seed.Retrieve(ctx, query, config)
	if err != nil {
		return nil, err
	}

	merged := newResultSet()
	for _, seed := range seeds {
		merged.add(seed)
	}

	for _, seed := range seeds {
		neighbors, err := s.engine.Neighbors(ctx, seed.Resource.IRI, config)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		for _, neighbor := range neighbors {
			neighbor.Score = seed.Score * config.GraphWeight / float64(neighbor.GraphDistance)
			merged.add(neighbor)
		}
	}

	return merged.sorted(config.TopK), nil
}

// HybridStrategy combines label and vector matches, then adds their neighbors.
type HybridStrategy struct {
	engine *Engine
}

// NewHybridStrategy creates a new hybrid strategy
func NewHybridStrategy(engine *Engine) *HybridStrategy {
	return &HybridStrategy{engine: engine}
}

// Retrieve weights vector scores with VectorWeight and label scores with the rest.
// Without an embedder only label matches are used.
func (s *HybridStrategy) Retrieve(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	seed := strategyFunc(func(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
		labelResults, err := NewLabelStrategy(s.engine).Retrieve(ctx, query, config)
		if err != nil {
			return nil, err
		}
		if s.engine.embed == nil {
			return labelResults, nil
		}

		vectorResults, err := NewVectorStrategy(s.engine).Retrieve(ctx, query, config)
		if err != nil {
			return nil, err
		}

		combined := map[string]*model.RetrievalResult{}
		var order []string
		for _, result := range vectorResults {
			result.Score = result.SimilarityScore * config.VectorWeight
			combined[result.Resource.IRI] = result
			order = append(order, result.Resource.IRI)
		}
		for _, result := range labelResults {
			labelScore := result.Score * (1 - config.VectorWeight)
			if existing, ok := combined[result.Resource.IRI]; ok {
				existing.Score += labelScore
				existing.RetrievalMethod = MethodVector + "+" + MethodLabel
				continue
			}
			result.Score = labelScore
			combined[result.Resource.IRI] = result
			order = append(order, result.Resource.IRI)
		}

		results := make([]*model.RetrievalResult, 0, len(order))
		for _, iri := range order {
			results = append(results, combined[iri])
		}
		return results, nil
	})

	return NewNeighborhoodStrategy(s.engine, seed).Retrieve(ctx, query, config)
}

type strategyFunc func(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error)

func (f strategyFunc) Retrieve(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	return f(ctx, query, config)
}
