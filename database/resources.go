package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/model"
	loadSql "github.com/siherrmann/wikigrapher/sql"
)

// ResourcesDBHandlerFunctions defines the interface for Resources database operations.
type ResourcesDBHandlerFunctions interface {
	UpsertResource(resource *model.Resource) error
	UpdateResourceEmbedding(iri string, embedding []float32) error
	DeleteResource(iri string) error
	SelectResource(iri string) (*model.Resource, error)
	SelectResourcesByType(typeIRI string, limit int) ([]*model.Resource, error)
	SearchResources(term string, limit int) ([]*model.Resource, error)
	SelectResourcesBySimilarity(embedding []float32, limit int, threshold float64) ([]*model.Resource, error)
	CountResources() (int, error)
}

// ResourcesDBHandler handles resource-related database operations
type ResourcesDBHandler struct {
	db           *helper.Database
	EmbeddingDim int
}

// NewResourcesDBHandler creates a new resources database handler.
// embeddingDim is the dimension of the label embeddings, 384 for the default model.
// If force is true, it will reload the SQL functions even if they already exist.
func NewResourcesDBHandler(db *helper.Database, embeddingDim int, force bool) (*ResourcesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}
	if embeddingDim <= 0 {
		return nil, helper.NewError("embedding dimension validation", fmt.Errorf("embedding dimension must be positive, got %d", embeddingDim))
	}

	resourcesDbHandler := &ResourcesDBHandler{
		db:           db,
		EmbeddingDim: embeddingDim,
	}

	err := loadSql.LoadResourcesSql(resourcesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load resources sql", err)
	}

	err = resourcesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ResourcesDBHandler")

	return resourcesDbHandler, nil
}

// CreateTable creates the 'resources' table with its vector index.
// If the table already exists, it does not create it again.
func (h *ResourcesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_resources($1);`, h.EmbeddingDim)
	if err != nil {
		log.Panicf("error initializing resources table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table resources")

	return nil
}

// UpsertResource inserts a resource or updates the one with the same IRI.
// Label and type of a primary resource are only replaced by another primary one.
// The embedding is kept, use UpdateResourceEmbedding to change it.
func (h *ResourcesDBHandler) UpsertResource(resource *model.Resource) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM upsert_resource($1, $2, $3, $4, $5)`,
		resource.IRI,
		resource.Label,
		resource.TypeIRI,
		resource.Primary,
		resource.Metadata,
	)

	err := scanResource(row, resource)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// UpdateResourceEmbedding sets the label embedding of a resource
func (h *ResourcesDBHandler) UpdateResourceEmbedding(iri string, embedding []float32) error {
	if len(embedding) != h.EmbeddingDim {
		return helper.NewError("embedding validation", fmt.Errorf("expected %d dimensions, got %d", h.EmbeddingDim, len(embedding)))
	}

	_, err := h.db.Instance.Exec(
		`SELECT update_resource_embedding($1, $2)`,
		iri,
		pgvector.NewVector(embedding),
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// DeleteResource deletes a resource by IRI
func (h *ResourcesDBHandler) DeleteResource(iri string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_resource($1)`,
		iri,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectResource retrieves a resource by IRI
func (h *ResourcesDBHandler) SelectResource(iri string) (*model.Resource, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_resource($1)`,
		iri,
	)

	resource := &model.Resource{}
	err := scanResource(row, resource)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, helper.NewError("select resource", model.ErrResourceNotFound)
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return resource, nil
}

// SelectResourcesByType retrieves resources of a type ordered by label
func (h *ResourcesDBHandler) SelectResourcesByType(typeIRI string, limit int) ([]*model.Resource, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_resources_by_type($1, $2)`,
		typeIRI,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	return collectResources(rows)
}

// SearchResources finds resources whose label contains term, ignoring case.
// Exact and prefix matches come first.
func (h *ResourcesDBHandler) SearchResources(term string, limit int) ([]*model.Resource, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM search_resources($1, $2)`,
		term,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	return collectResources(rows)
}

// SelectResourcesBySimilarity performs cosine similarity search over label embeddings
func (h *ResourcesDBHandler) SelectResourcesBySimilarity(embedding []float32, limit int, threshold float64) ([]*model.Resource, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_resources_by_similarity($1, $2, $3)`,
		pgvector.NewVector(embedding),
		limit,
		threshold,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var resources []*model.Resource
	for rows.Next() {
		resource := &model.Resource{}
		var similarity float64
		err := scanResource(rows, resource, &similarity)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		resource.Similarity = &similarity
		resources = append(resources, resource)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return resources, nil
}

// CountResources returns the number of stored resources
func (h *ResourcesDBHandler) CountResources() (int, error) {
	var count int
	err := h.db.Instance.QueryRow(`SELECT count_resources()`).Scan(&count)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return count, nil
}

func collectResources(rows *sql.Rows) ([]*model.Resource, error) {
	defer rows.Close()

	var resources []*model.Resource
	for rows.Next() {
		resource := &model.Resource{}
		err := scanResource(rows, resource)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		resources = append(resources, resource)
	}

	err := rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return resources, nil
}

func scanResource(row rowScanner, resource *model.Resource, extra ...interface{}) error {
	var embedding *pgvector.Vector
	dest := []interface{}{
		&resource.ID,
		&resource.RID,
		&resource.IRI,
		&resource.Label,
		&resource.TypeIRI,
		&resource.Primary,
		&embedding,
		&resource.Metadata,
		&resource.CreatedAt,
	}

	err := row.Scan(append(dest, extra...)...)
	if err != nil {
		return err
	}

	resource.Embedding = nil
	if embedding != nil {
		resource.Embedding = embedding.Slice()
	}
	return nil
}
