package sparqlstore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/knakk/rdf"
	"github.com/siherrmann/wikigrapher/core/ontology"
	"github.com/siherrmann/wikigrapher/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listResults = `{
  "head": {"vars": ["s", "label"]},
  "results": {"bindings": [
    {"s": {"type": "uri", "value": "http://tolkien-kg.org/resource/Aragorn"}, "label": {"type": "literal", "value": "Aragorn"}},
    {"s": {"type": "uri", "value": "http://tolkien-kg.org/resource/Arwen"}}
  ]}
}`

const outgoingResults = `{
  "head": {"vars": ["p", "o"]},
  "results": {"bindings": [
    {"p": {"type": "uri", "value": "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"}, "o": {"type": "uri", "value": "http://tolkien-kg.org/ontology/Character"}},
    {"p": {"type": "uri", "value": "http://www.w3.org/2000/01/rdf-schema#label"}, "o": {"type": "literal", "value": "Aragorn", "xml:lang": "en"}},
    {"p": {"type": "uri", "value": "http://tolkien-kg.org/ontology/spouse"}, "o": {"type": "uri", "value": "http://tolkien-kg.org/resource/Arwen"}}
  ]}
}`

const incomingResults = `{
  "head": {"vars": ["s", "p"]},
  "results": {"bindings": [
    {"s": {"type": "uri", "value": "http://tolkien-kg.org/resource/Arwen"}, "p": {"type": "uri", "value": "http://tolkien-kg.org/ontology/spouse"}}
  ]}
}`

const emptyResults = `{"head": {"vars": []}, "results": {"bindings": []}}`

type fakeFuseki struct {
	mu      sync.Mutex
	queries []string
	uploads []*http.Request
	bodies  []string
}

func (f *fakeFuseki) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tolkien/query", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		query := r.Form.Get("query")
		f.mu.Lock()
		f.queries = append(f.queries, query)
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/sparql-results+json")
		switch {
		case strings.Contains(query, "Nobody"):
			_, _ = io.WriteString(w, emptyResults)
		case strings.Contains(query, "COUNT"):
			_, _ = io.WriteString(w, `{"head":{"vars":["count"]},"results":{"bindings":[{"count":{"type":"literal","datatype":"http://www.w3.org/2001/XMLSchema#integer","value":"42"}}]}}`)
		case strings.Contains(query, "SELECT ?p ?o"):
			_, _ = io.WriteString(w, outgoingResults)
		case strings.Contains(query, "SELECT ?s ?p"):
			_, _ = io.WriteString(w, incomingResults)
		default:
			_, _ = io.WriteString(w, listResults)
		}
	})
	mux.HandleFunc("/tolkien/data", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.uploads = append(f.uploads, r)
		f.bodies = append(f.bodies, string(body))
		f.mu.Unlock()

		user, _, ok := r.BasicAuth()
		if !ok || user != "admin" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	return mux
}

func newTestStore(t *testing.T) (*Store, *fakeFuseki) {
	t.Helper()
	fake := &fakeFuseki{}
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	store, err := NewStore(Config{URL: server.URL + "/", Dataset: "tolkien", User: "admin", Password: "secret"}, nil)
	require.NoError(t, err, "Expected NewStore to not return an error")
	return store, fake
}

func TestNewStore(t *testing.T) {
	_, err := NewStore(Config{URL: "http://localhost:3030"}, nil)
	assert.Error(t, err, "Expected missing dataset to fail")
}

func TestListByType(t *testing.T) {
	store, fake := newTestStore(t)

	t.Run("Valid call ListByType", func(t *testing.T) {
		resources, err := store.ListByType(context.Background(), ontology.Character.String(), 10)
		require.NoError(t, err, "Expected ListByType to not return an error")
		require.Len(t, resources, 2)
		assert.Equal(t, ontology.KGRes+"Aragorn", resources[0].IRI)
		assert.Equal(t, "Aragorn", resources[0].Label)
		assert.Equal(t, ontology.Character.String(), resources[0].TypeIRI)
		assert.Equal(t, ontology.KGRes+"Arwen", resources[1].Label, "Expected IRI as label fallback")

		last := fake.queries[len(fake.queries)-1]
		assert.Contains(t, last, "<"+ontology.KGOnt+"Character>")
		assert.Contains(t, last, "LIMIT 10")
	})

	t.Run("Invalid type IRI", func(t *testing.T) {
		_, err := store.ListByType(context.Background(), "not an iri", 10)
		assert.Error(t, err)
	})
}

func TestSearchByLabel(t *testing.T) {
	store, fake := newTestStore(t)

	resources, err := store.SearchByLabel(context.Background(), `Ara"gorn`, 0)
	require.NoError(t, err)
	assert.Len(t, resources, 2)

	last := fake.queries[len(fake.queries)-1]
	assert.Contains(t, last, `LCASE("Ara\"gorn")`, "Expected quotes to be escaped")
	assert.Contains(t, last, "LIMIT 100", "Expected default limit")
}

func TestDescribe(t *testing.T) {
	store, _ := newTestStore(t)

	t.Run("Valid call Describe", func(t *testing.T) {
		description, err := store.Describe(context.Background(), ontology.KGRes+"Aragorn")
		require.NoError(t, err, "Expected Describe to not return an error")

		assert.Equal(t, "Aragorn", description.Resource.Label)
		assert.Equal(t, ontology.Character.String(), description.Resource.TypeIRI)
		require.Len(t, description.Outgoing, 3)
		assert.Equal(t, "en", description.Outgoing[1].Lang)
		assert.True(t, description.Outgoing[2].IsLink())
		require.Len(t, description.Incoming, 1)
		assert.Equal(t, ontology.KGRes+"Arwen", description.Incoming[0].Subject)
		assert.Equal(t, ontology.KGRes+"Aragorn", description.Incoming[0].Object)
	})

	t.Run("Unknown resource", func(t *testing.T) {
		_, err := store.Describe(context.Background(), ontology.KGRes+"Nobody")
		assert.True(t, errors.Is(err, model.ErrResourceNotFound), "Expected ErrResourceNotFound, got %v", err)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := store.Describe(ctx, ontology.KGRes+"Aragorn")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCount(t *testing.T) {
	store, _ := newTestStore(t)
	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestUpload(t *testing.T) {
	store, fake := newTestStore(t)
	label, err := rdf.NewLiteral("Aragorn")
	require.NoError(t, err)
	triples := []rdf.Triple{{Subj: ontology.Resource("Aragorn"), Pred: ontology.RDFSLabel, Obj: label}}

	t.Run("Valid call UploadTriples replaces the graph", func(t *testing.T) {
		err := store.UploadTriples(context.Background(), triples, "", true)
		require.NoError(t, err, "Expected UploadTriples to not return an error")

		request := fake.uploads[len(fake.uploads)-1]
		assert.Equal(t, http.MethodPut, request.Method)
		assert.Contains(t, request.Header.Get("Content-Type"), "text/turtle")
		assert.Contains(t, fake.bodies[len(fake.bodies)-1], "Aragorn")
	})

	t.Run("Append to a named graph", func(t *testing.T) {
		err := store.Upload(context.Background(), strings.NewReader("<a:b> <a:c> <a:d> ."), "http://tolkien-kg.org/graph/en", false)
		require.NoError(t, err)

		request := fake.uploads[len(fake.uploads)-1]
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "http://tolkien-kg.org/graph/en", request.URL.Query().Get("graph"))
	})

	t.Run("Rejected upload", func(t *testing.T) {
		fake := &fakeFuseki{}
		server := httptest.NewServer(fake.handler())
		defer server.Close()
		anonymous, err := NewStore(Config{URL: server.URL, Dataset: "tolkien"}, nil)
		require.NoError(t, err)

		err = anonymous.UploadTriples(context.Background(), triples, "", true)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
}
