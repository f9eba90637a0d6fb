package graph

import (
	"context"
	"testing"

	"github.com/siherrmann/wikigrapher/core/ontology"
	"github.com/siherrmann/wikigrapher/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	knows    = ontology.KGOnt + "knows"
	location = ontology.KGOnt + "location"
)

// MockGraphDB is a mock implementation of GraphDB for testing
type MockGraphDB struct {
	resources map[string]*model.Resource
	triples   []*model.StoredTriple
}

func NewMockGraphDB() *MockGraphDB {
	return &MockGraphDB{resources: map[string]*model.Resource{}}
}

func (m *MockGraphDB) addResource(name string) string {
	iri := ontology.KGRes + name
	m.resources[iri] = &model.Resource{IRI: iri, Label: name}
	return iri
}

func (m *MockGraphDB) link(subject, predicate, object string) {
	m.triples = append(m.triples, &model.StoredTriple{Subject: subject, Predicate: predicate, Object: object, ObjectKind: model.ObjectKindIRI})
}

func (m *MockGraphDB) GetResource(ctx context.Context, iri string) (*model.Resource, error) {
	resource, ok := m.resources[iri]
	if !ok {
		return nil, model.ErrResourceNotFound
	}
	return resource, nil
}

func (m *MockGraphDB) GetLinks(ctx context.Context, iri string, followIncoming bool) ([]*model.StoredTriple, error) {
	var links []*model.StoredTriple
	for _, triple := range m.triples {
		if triple.Subject == iri || (followIncoming && triple.Object == iri) {
			links = append(links, triple)
		}
	}
	return links, nil
}

// newTestGraph builds A -> B -> C, A -> D (location), E isolated,
// a literal on A and a type link on A.
func newTestGraph() (*MockGraphDB, map[string]string) {
	db := NewMockGraphDB()
	iris := map[string]string{}
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		iris[name] = db.addResource(name)
	}
	db.link(iris["A"], knows, iris["B"])
	db.link(iris["B"], knows, iris["C"])
	db.link(iris["A"], location, iris["D"])
	db.link(iris["A"], ontology.RDFType.String(), ontology.KGOnt+"Character")
	db.triples = append(db.triples, &model.StoredTriple{Subject: iris["A"], Predicate: knows, Object: "B", ObjectKind: model.ObjectKindLiteral})
	return db, iris
}

func iriList(results []*TraversalResult) []string {
	var iris []string
	for _, result := range results {
		iris = append(iris, result.Resource.IRI)
	}
	return iris
}

func TestBFS(t *testing.T) {
	db, iris := newTestGraph()
	ctx := context.Background()

	t.Run("BFS from source with max hops 1", func(t *testing.T) {
		results, err := BFS(ctx, db, iris["A"], 1, nil, false)
		assert.NoError(t, err, "Expected BFS to not return an error")
		assert.Equal(t, []string{iris["A"], iris["B"], iris["D"]}, iriList(results), "Expected source and its direct links")
		assert.Equal(t, 0, results[0].Distance, "Expected source distance to be 0")
		assert.Nil(t, results[0].Via, "Expected source to have no triple")
		assert.Equal(t, knows, results[1].Via.Predicate, "Expected triple that reached B")
	})

	t.Run("BFS from source with max hops 2", func(t *testing.T) {
		results, err := BFS(ctx, db, iris["A"], 2, nil, false)
		require.NoError(t, err)
		require.Len(t, results, 4, "Expected A, B, D and C")
		assert.Equal(t, iris["C"], results[3].Resource.IRI, "Expected C last")
		assert.Equal(t, 2, results[3].Distance, "Expected C at distance 2")
		assert.Equal(t, []string{iris["A"], iris["B"], iris["C"]}, results[3].Path, "Expected path to C")
	})

	t.Run("BFS with predicate filter", func(t *testing.T) {
		results, err := BFS(ctx, db, iris["A"], 3, []string{location}, false)
		require.NoError(t, err)
		assert.Equal(t, []string{iris["A"], iris["D"]}, iriList(results), "Expected only location links")
	})

	t.Run("BFS from isolated node", func(t *testing.T) {
		results, err := BFS(ctx, db, iris["E"], 3, nil, true)
		require.NoError(t, err)
		assert.Len(t, results, 1, "Expected only the source")
	})

	t.Run("BFS with max hops 0", func(t *testing.T) {
		results, err := BFS(ctx, db, iris["A"], 0, nil, false)
		require.NoError(t, err)
		assert.Len(t, results, 1, "Expected only the source")
	})

	t.Run("BFS follows incoming links", func(t *testing.T) {
		results, err := BFS(ctx, db, iris["C"], 2, nil, true)
		require.NoError(t, err)
		assert.Equal(t, []string{iris["C"], iris["B"], iris["A"]}, iriList(results), "Expected backward traversal")
	})

	t.Run("BFS ignores incoming links by default", func(t *testing.T) {
		results, err := BFS(ctx, db, iris["C"], 2, nil, false)
		require.NoError(t, err)
		assert.Len(t, results, 1, "Expected no outgoing links from C")
	})

	t.Run("BFS skips unknown resources", func(t *testing.T) {
		db, iris := newTestGraph()
		db.link(iris["E"], knows, ontology.KGRes+"Nobody")
		results, err := BFS(ctx, db, iris["E"], 1, nil, false)
		require.NoError(t, err)
		assert.Len(t, results, 1, "Expected unknown target to be skipped")
	})

	t.Run("BFS from unknown source", func(t *testing.T) {
		_, err := BFS(ctx, db, ontology.KGRes+"Nobody", 1, nil, false)
		assert.ErrorIs(t, err, model.ErrResourceNotFound, "Expected not found error")
	})

	t.Run("BFS with cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := BFS(cancelled, db, iris["A"], 2, nil, false)
		assert.ErrorIs(t, err, context.Canceled, "Expected context error")
	})

	t.Run("BFS terminates on cycles", func(t *testing.T) {
		db, iris := newTestGraph()
		db.link(iris["C"], knows, iris["A"])
		results, err := BFS(ctx, db, iris["A"], 10, nil, true)
		require.NoError(t, err)
		assert.Len(t, results, 4, "Expected every resource once")
	})
}

func TestDFS(t *testing.T) {
	db, iris := newTestGraph()
	ctx := context.Background()

	t.Run("DFS from source with max hops 2", func(t *testing.T) {
		results, err := DFS(ctx, db, iris["A"], 2, nil, false)
		assert.NoError(t, err, "Expected DFS to not return an error")
		assert.Equal(t, []string{iris["A"], iris["B"], iris["C"], iris["D"]}, iriList(results), "Expected depth first order")
	})

	t.Run("DFS from source with max hops 1", func(t *testing.T) {
		results, err := DFS(ctx, db, iris["A"], 1, nil, false)
		require.NoError(t, err)
		assert.Equal(t, []string{iris["A"], iris["B"], iris["D"]}, iriList(results))
	})

	t.Run("DFS with max hops 0", func(t *testing.T) {
		results, err := DFS(ctx, db, iris["A"], 0, nil, false)
		require.NoError(t, err)
		assert.Len(t, results, 1, "Expected only the source")
	})

	t.Run("DFS follows incoming links", func(t *testing.T) {
		results, err := DFS(ctx, db, iris["D"], 3, nil, true)
		require.NoError(t, err)
		assert.Equal(t, []string{iris["D"], iris["A"], iris["B"], iris["C"]}, iriList(results))
		assert.Equal(t, 3, results[3].Distance, "Expected C three hops from D")
	})

	t.Run("DFS with cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := DFS(cancelled, db, iris["A"], 2, nil, false)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGetNeighbors(t *testing.T) {
	db, iris := newTestGraph()
	ctx := context.Background()

	t.Run("Get neighbors of source", func(t *testing.T) {
		neighbors, err := GetNeighbors(ctx, db, iris["A"], nil, false)
		assert.NoError(t, err, "Expected GetNeighbors to not return an error")
		assert.Equal(t, []string{iris["B"], iris["D"]}, iriList(neighbors))
	})

	t.Run("Get neighbors with predicate filter", func(t *testing.T) {
		neighbors, err := GetNeighbors(ctx, db, iris["A"], []string{knows}, false)
		require.NoError(t, err)
		assert.Equal(t, []string{iris["B"]}, iriList(neighbors))
	})

	t.Run("Get neighbors of isolated resource", func(t *testing.T) {
		neighbors, err := GetNeighbors(ctx, db, iris["E"], nil, true)
		require.NoError(t, err)
		assert.Empty(t, neighbors, "Expected no neighbors")
	})
}
