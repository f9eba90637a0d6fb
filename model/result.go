package model

// RetrievalResult is a resource returned by the retrieval engine.
type RetrievalResult struct {
	Resource        *Resource       `json:"resource"`
	Score           float64         `json:"score"`
	SimilarityScore float64         `json:"similarity_score"`
	GraphDistance   int             `json:"graph_distance"`
	RetrievalMethod string          `json:"retrieval_method"` // label, vector or graph
	Triples         []*StoredTriple `json:"triples,omitempty"`
}

// ResourceDescription is everything known about one resource.
type ResourceDescription struct {
	Resource *Resource       `json:"resource"`
	Outgoing []*StoredTriple `json:"outgoing"`
	Incoming []*StoredTriple `json:"incoming,omitempty"`
}

// GraphStats summarizes the stored graph.
type GraphStats struct {
	Pages     int                `json:"pages"`
	Triples   int                `json:"triples"`
	Resources int                `json:"resources"`
	ByStatus  map[PageStatus]int `json:"by_status"`
}
