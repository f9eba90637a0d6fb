package retrieval

import (
	"context"
	"sort"
	"strings"

	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/model"
)

// Search runs the hybrid strategy for a free text query.
// A nil config uses DefaultQueryConfig.
func (e *Engine) Search(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if config == nil {
		defaults := model.DefaultQueryConfig()
		config = &defaults
	}

	results, err := NewHybridStrategy(e).Retrieve(ctx, query, config)
	if err != nil {
		return nil, helper.NewError("search", err)
	}
	return results, nil
}

// resultSet keeps the best scored result per resource in first-seen order.
type resultSet struct {
	byIRI map[string]*model.RetrievalResult
	order []string
}

func newResultSet() *resultSet {
	return &resultSet{byIRI: map[string]*model.RetrievalResult{}}
}

func (s *resultSet) add(result *model.RetrievalResult) {
	iri := result.Resource.IRI
	existing, ok := s.byIRI[iri]
	if !ok {
		s.byIRI[iri] = result
		s.order = append(s.order, iri)
		return
	}
	if result.Score > existing.Score {
		s.byIRI[iri] = result
	}
}

func (s *resultSet) sorted(topK int) []*model.RetrievalResult {
	results := make([]*model.RetrievalResult, 0, len(s.order))
	for _, iri := range s.order {
		results = append(results, s.byIRI[iri])
	}

	// Sort by score, ties keep first-seen order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}
