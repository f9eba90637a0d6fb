package model

// QueryConfig configures retrieval queries against the stored graph.
type QueryConfig struct {
	// Vector search
	TopK                int     `json:"top_k"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`

	// Restrict results to resources of these type IRIs
	TypeIRIs []string `json:"type_iris,omitempty"`

	// Graph traversal
	MaxHops        int      `json:"max_hops,omitempty"`
	Predicates     []string `json:"predicates,omitempty"` // empty means all
	FollowIncoming bool     `json:"follow_incoming"`

	// Ranking
	VectorWeight float64 `json:"vector_weight"`
	GraphWeight  float64 `json:"graph_weight"`
}

// DefaultQueryConfig returns a sensible default configuration
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		TopK:                10,
		SimilarityThreshold: 0.5,
		MaxHops:             1,
		Predicates:          nil,
		FollowIncoming:      false,
		VectorWeight:        0.7,
		GraphWeight:         0.3,
	}
}
