package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/siherrmann/wikigrapher/helper"
)

// IndexType is a pgvector index method.
type IndexType string

const (
	IndexTypeHNSW    IndexType = "hnsw"
	IndexTypeIVFFlat IndexType = "ivfflat"
)

// IndexOptions tunes the vector index. Zero values use the pgvector defaults.
type IndexOptions struct {
	M              int // HNSW, default 16
	EfConstruction int // HNSW, default 64
	Lists          int // IVFFlat, default 100
}

// ChangeIndexType rebuilds the label embedding index with the given method.
// IVFFlat needs existing embeddings to pick good lists, build it after loading.
func (h *ResourcesDBHandler) ChangeIndexType(ctx context.Context, indexType IndexType, options IndexOptions) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	var createIndexSQL string
	switch indexType {
	case IndexTypeHNSW:
		m := options.M
		if m <= 0 {
			m = 16
		}
		efConstruction := options.EfConstruction
		if efConstruction <= 0 {
			efConstruction = 64
		}
		createIndexSQL = fmt.Sprintf(
			`CREATE INDEX idx_resources_embedding ON resources USING hnsw (embedding vector_cosine_ops) WITH (m = %d, ef_construction = %d);`,
			m, efConstruction,
		)
	case IndexTypeIVFFlat:
		lists := options.Lists
		if lists <= 0 {
			lists = 100
		}
		createIndexSQL = fmt.Sprintf(
			`CREATE INDEX idx_resources_embedding ON resources USING ivfflat (embedding vector_cosine_ops) WITH (lists = %d);`,
			lists,
		)
	default:
		return helper.NewError("change index type", fmt.Errorf("unsupported index type: %s (use 'hnsw' or 'ivfflat')", indexType))
	}

	_, err := h.db.Instance.ExecContext(ctx, `DROP INDEX IF EXISTS idx_resources_embedding;`)
	if err != nil {
		return helper.NewError("drop index", err)
	}

	_, err = h.db.Instance.ExecContext(ctx, createIndexSQL)
	if err != nil {
		return helper.NewError("create index", err)
	}

	h.db.Logger.Info("Created vector index", slog.String("type", string(indexType)), slog.Any("options", options))

	return nil
}
