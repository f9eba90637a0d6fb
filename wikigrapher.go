package wikigrapher

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/siherrmann/wikigrapher/core/graph"
	"github.com/siherrmann/wikigrapher/core/pipeline"
	"github.com/siherrmann/wikigrapher/core/retrieval"
	"github.com/siherrmann/wikigrapher/database"
	"github.com/siherrmann/wikigrapher/export"
	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/model"
	loadSql "github.com/siherrmann/wikigrapher/sql"
)

// Grapher provides a unified interface to all database handlers
type Grapher struct {
	DB        *helper.Database
	Pages     *database.PagesDBHandler
	Triples   *database.TriplesDBHandler
	Resources *database.ResourcesDBHandler
	Pipeline  *pipeline.Pipeline // Extraction pipeline, the built-in vocabulary by default
	Engine    *retrieval.Engine  // Retrieval engine for search and description
	Embedder  pipeline.EmbedFunc // Optional label embedder
	// Logging
	log *slog.Logger
}

// StoreResult counts what Store wrote.
type StoreResult struct {
	Pages     int
	Triples   int
	Resources int
	Embedded  int
}

// NewGrapher creates a new Grapher instance with all handlers initialized
func NewGrapher(config *helper.DatabaseConfiguration, embeddingDim int) (*Grapher, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	return NewGrapherWithLogger(config, embeddingDim, logger)
}

// NewGrapherWithLogger is NewGrapher with a caller supplied logger.
func NewGrapherWithLogger(config *helper.DatabaseConfiguration, embeddingDim int, logger *slog.Logger) (*Grapher, error) {
	// Initialize database
	db := helper.NewDatabase("wikigrapher", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Triples reference pages, so pages come first
	// force=false to not reload if functions already exist
	pages, err := database.NewPagesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create pages handler", err)
	}

	triples, err := database.NewTriplesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create triples handler", err)
	}

	resources, err := database.NewResourcesDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create resources handler", err)
	}

	return &Grapher{
		DB:        db,
		Pages:     pages,
		Triples:   triples,
		Resources: resources,
		Pipeline:  pipeline.NewPipeline(nil, logger),
		Engine:    retrieval.NewEngine(pages, triples, resources),
		log:       logger,
	}, nil
}

// Close closes the database connection
func (g *Grapher) Close() error {
	if g.DB != nil && g.DB.Instance != nil {
		return g.DB.Instance.Close()
	}
	return nil
}

// SetPipeline replaces the extraction pipeline
func (g *Grapher) SetPipeline(p *pipeline.Pipeline) {
	g.Pipeline = p
}

// SetEmbedder sets the embedder used for resource labels and search queries
func (g *Grapher) SetEmbedder(embed pipeline.EmbedFunc) {
	g.Embedder = embed
	if g.Engine != nil {
		g.Engine.SetEmbedder(embed)
	}
}

// UseDefaultEmbedder sets up the all-MiniLM-L6-v2 label embedder (384 dimensions)
// with its model cached in modelDir.
func (g *Grapher) UseDefaultEmbedder(modelDir string) error {
	embedder, err := pipeline.DefaultEmbedder(modelDir)
	if err != nil {
		return helper.NewError("create default embedder", err)
	}
	g.SetEmbedder(embedder)
	return nil
}

// Build runs the pipeline over pages and stores the result.
func (g *Grapher) Build(ctx context.Context, pages []*model.Page) (*pipeline.Result, *StoreResult, error) {
	if g.Pipeline == nil {
		return nil, nil, helper.NewError("build", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	result, err := g.Pipeline.Run(ctx, pages)
	if err != nil {
		return nil, nil, err
	}

	stored, err := g.Store(ctx, pages, result)
	if err != nil {
		return result, nil, err
	}
	return result, stored, nil
}

// Store writes one pipeline run: every page with its report, all triples
// linked to the page they came from, and one resource per subject.
// pages must be the slice the result was produced from.
func (g *Grapher) Store(ctx context.Context, pages []*model.Page, result *pipeline.Result) (*StoreResult, error) {
	if len(pages) != len(result.Reports) {
		return nil, helper.NewError("store", fmt.Errorf("got %d pages for %d reports", len(pages), len(result.Reports)))
	}

	stored := make([]*model.StoredTriple, 0, len(result.Triples))
	primary := map[string]bool{}
	offset := 0
	for i, report := range result.Reports {
		page := pages[i]
		if err := g.Pages.UpsertPage(page); err != nil {
			return nil, helper.NewError(fmt.Sprintf("upsert page %s", page.Title), err)
		}
		if err := g.Pages.UpdatePageReport(page, report); err != nil {
			return nil, helper.NewError(fmt.Sprintf("update report %s", page.Title), err)
		}

		// page triples come first in report order
		end := offset + report.Triples
		if end > len(result.Triples) {
			return nil, helper.NewError("store", fmt.Errorf("report %s counts more triples than the result holds", page.Title))
		}
		for _, triple := range result.Triples[offset:end] {
			row := export.ToStored(triple)
			row.PageRID = &page.RID
			stored = append(stored, row)
			primary[row.Subject] = true
		}
		offset = end
	}
	for _, triple := range result.Triples[offset:] {
		stored = append(stored, export.ToStored(triple))
	}

	if err := g.Triples.InsertTriples(ctx, stored); err != nil {
		return nil, helper.NewError("insert triples", err)
	}

	resources := resourcesFromStored(stored, primary)
	for _, resource := range resources {
		if err := g.Resources.UpsertResource(resource); err != nil {
			return nil, helper.NewError(fmt.Sprintf("upsert resource %s", resource.IRI), err)
		}
	}

	embedded, err := g.embedResources(resources)
	if err != nil {
		return nil, err
	}

	storeResult := &StoreResult{
		Pages:     len(pages),
		Triples:   len(stored),
		Resources: len(resources),
		Embedded:  embedded,
	}
	g.log.Info("Stored pipeline result",
		slog.Int("pages", storeResult.Pages),
		slog.Int("triples", storeResult.Triples),
		slog.Int("resources", storeResult.Resources),
		slog.Int("embedded", storeResult.Embedded),
	)
	return storeResult, nil
}

func (g *Grapher) embedResources(resources []*model.Resource) (int, error) {
	if g.Embedder == nil {
		return 0, nil
	}

	var missing []*model.Resource
	for _, resource := range resources {
		if len(resource.Embedding) == 0 {
			missing = append(missing, resource)
		}
	}
	if err := pipeline.EmbedResources(missing, g.Embedder); err != nil {
		return 0, err
	}

	embedded := 0
	for _, resource := range missing {
		if len(resource.Embedding) == 0 {
			continue
		}
		if err := g.Resources.UpdateResourceEmbedding(resource.IRI, resource.Embedding); err != nil {
			return embedded, helper.NewError(fmt.Sprintf("store embedding %s", resource.IRI), err)
		}
		embedded++
	}
	return embedded, nil
}

// resourcesFromStored builds one resource per subject in first-seen order.
func resourcesFromStored(stored []*model.StoredTriple, primary map[string]bool) []*model.Resource {
	var order []string
	bySubject := map[string][]*model.StoredTriple{}
	for _, triple := range stored {
		if _, ok := bySubject[triple.Subject]; !ok {
			order = append(order, triple.Subject)
		}
		bySubject[triple.Subject] = append(bySubject[triple.Subject], triple)
	}

	resources := make([]*model.Resource, 0, len(order))
	for _, subject := range order {
		resource := export.ResourceFromTriples(subject, bySubject[subject])
		resource.Primary = primary[subject]
		resource.Metadata = model.Metadata{"triples": len(bySubject[subject])}
		resources = append(resources, resource)
	}
	return resources
}

// Search ranks resources for a text query, see retrieval.Engine.Search
func (g *Grapher) Search(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	if g.Engine == nil {
		return nil, helper.NewError("search", fmt.Errorf("retrieval engine not initialized"))
	}
	return g.Engine.Search(ctx, query, config)
}

// VectorSearch performs embedding similarity search over resource labels
func (g *Grapher) VectorSearch(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	if g.Embedder == nil {
		return nil, helper.NewError("vector search", fmt.Errorf("no embedder set, use SetEmbedder() first"))
	}

	// Generate embedding from query
	embedding, err := g.Embedder(query)
	if err != nil {
		return nil, helper.NewError("generate embedding", err)
	}

	return g.Engine.VectorRetrieve(ctx, embedding, config)
}

// Describe returns the stored triples around a resource
func (g *Grapher) Describe(ctx context.Context, iri string) (*model.ResourceDescription, error) {
	return g.Engine.Describe(ctx, iri)
}

// BFSTraversal performs breadth-first search from a resource
func (g *Grapher) BFSTraversal(ctx context.Context, sourceIRI string, maxHops int, predicates []string, followIncoming bool) ([]*graph.TraversalResult, error) {
	return graph.BFS(ctx, g.Engine, sourceIRI, maxHops, predicates, followIncoming)
}

// DFSTraversal performs depth-first search from a resource
func (g *Grapher) DFSTraversal(ctx context.Context, sourceIRI string, maxHops int, predicates []string, followIncoming bool) ([]*graph.TraversalResult, error) {
	return graph.DFS(ctx, g.Engine, sourceIRI, maxHops, predicates, followIncoming)
}

// ExportTriples reads all stored triples back in insertion order.
func (g *Grapher) ExportTriples(ctx context.Context, batchSize int) ([]*model.StoredTriple, error) {
	if batchSize < 1 {
		batchSize = 1000
	}

	var all []*model.StoredTriple
	var lastID int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch, err := g.Triples.SelectAllTriples(lastID, batchSize)
		if err != nil {
			return nil, helper.NewError("select triples", err)
		}
		all = append(all, batch...)
		if len(batch) < batchSize {
			return all, nil
		}
		lastID = batch[len(batch)-1].ID
	}
}

// Stats summarizes the stored graph
func (g *Grapher) Stats(ctx context.Context) (*model.GraphStats, error) {
	return g.Engine.Stats(ctx)
}

// ChangeIndexType changes the vector index type between HNSW and IVFFlat
func (g *Grapher) ChangeIndexType(ctx context.Context, indexType database.IndexType, options database.IndexOptions) error {
	return g.Resources.ChangeIndexType(ctx, indexType, options)
}
