package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChangeIndexType(t *testing.T) {
	resourcesDbHandler := initResourcesHandler(t)
	ctx := context.Background()

	t.Run("Change index to HNSW with default options", func(t *testing.T) {
		err := resourcesDbHandler.ChangeIndexType(ctx, IndexTypeHNSW, IndexOptions{})
		assert.NoError(t, err, "Expected ChangeIndexType to hnsw to not return an error")
	})

	t.Run("Change index to HNSW with custom options", func(t *testing.T) {
		err := resourcesDbHandler.ChangeIndexType(ctx, IndexTypeHNSW, IndexOptions{M: 32, EfConstruction: 128})
		assert.NoError(t, err, "Expected ChangeIndexType to hnsw with custom options to not return an error")
	})

	t.Run("Change index to IVFFlat", func(t *testing.T) {
		err := resourcesDbHandler.ChangeIndexType(ctx, IndexTypeIVFFlat, IndexOptions{Lists: 10})
		assert.NoError(t, err, "Expected ChangeIndexType to ivfflat to not return an error")
	})

	t.Run("Change index with unsupported index type", func(t *testing.T) {
		err := resourcesDbHandler.ChangeIndexType(ctx, IndexType("invalid"), IndexOptions{})
		assert.Error(t, err, "Expected error when using unsupported index type")
		assert.Contains(t, err.Error(), "unsupported index type", "Expected error message to mention unsupported index type")
	})

	t.Run("Change index with expired context", func(t *testing.T) {
		expired, cancel := context.WithTimeout(ctx, time.Nanosecond)
		defer cancel()
		time.Sleep(time.Millisecond)

		err := resourcesDbHandler.ChangeIndexType(expired, IndexTypeHNSW, IndexOptions{})
		assert.Error(t, err, "Expected error for expired context")
	})

	// Leave the default index for the other tests
	assert.NoError(t, resourcesDbHandler.ChangeIndexType(ctx, IndexTypeHNSW, IndexOptions{}))
}
