package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/siherrmann/wikigrapher/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmbeddingDim = 4

func initResourcesHandler(t *testing.T) *ResourcesDBHandler {
	database := initDB(t)

	resourcesDbHandler, err := NewResourcesDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err, "Expected NewResourcesDBHandler to not return an error")
	return resourcesDbHandler
}

func TestResourcesNewResourcesDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Invalid call NewResourcesDBHandler with nil database", func(t *testing.T) {
		_, err := NewResourcesDBHandler(nil, testEmbeddingDim, false)
		assert.Error(t, err, "Expected error when creating ResourcesDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})

	t.Run("Invalid call NewResourcesDBHandler with zero dimension", func(t *testing.T) {
		_, err := NewResourcesDBHandler(database, 0, false)
		assert.Error(t, err, "Expected error for zero embedding dimension")
	})
}

func TestResourcesUpsert(t *testing.T) {
	resourcesDbHandler := initResourcesHandler(t)
	iri := testRes + "Rivendell_" + uuid.NewString()

	t.Run("Insert linked resource", func(t *testing.T) {
		resource := &model.Resource{IRI: iri, Label: "Rivendell", TypeIRI: testOnt + "Location"}
		err := resourcesDbHandler.UpsertResource(resource)
		assert.NoError(t, err, "Expected UpsertResource to not return an error")
		assert.NotZero(t, resource.ID, "Expected inserted resource to have an ID")
		assert.False(t, resource.Primary, "Expected linked resource to not be primary")
		assert.Nil(t, resource.Embedding, "Expected no embedding yet")
	})

	t.Run("Primary resource replaces label and type", func(t *testing.T) {
		resource := &model.Resource{IRI: iri, Label: "Imladris", TypeIRI: testOnt + "Realm", Primary: true}
		err := resourcesDbHandler.UpsertResource(resource)
		assert.NoError(t, err)
		assert.Equal(t, "Imladris", resource.Label, "Expected primary label to win")
		assert.True(t, resource.Primary, "Expected resource to be primary")
	})

	t.Run("Linked resource does not replace primary label", func(t *testing.T) {
		resource := &model.Resource{IRI: iri, Label: "Last Homely House", TypeIRI: testOnt + "Location"}
		err := resourcesDbHandler.UpsertResource(resource)
		assert.NoError(t, err)
		assert.Equal(t, "Imladris", resource.Label, "Expected primary label to be kept")
		assert.Equal(t, testOnt+"Realm", resource.TypeIRI, "Expected primary type to be kept")
		assert.True(t, resource.Primary, "Expected resource to stay primary")
	})

	t.Run("Select and delete resource", func(t *testing.T) {
		selected, err := resourcesDbHandler.SelectResource(iri)
		require.NoError(t, err)
		assert.Equal(t, "Imladris", selected.Label)

		require.NoError(t, resourcesDbHandler.DeleteResource(iri))
		_, err = resourcesDbHandler.SelectResource(iri)
		assert.ErrorIs(t, err, model.ErrResourceNotFound, "Expected resource to be deleted")
	})
}

func TestResourcesQueries(t *testing.T) {
	resourcesDbHandler := initResourcesHandler(t)

	suffix := uuid.NewString()
	typeIRI := testOnt + "Character_" + suffix
	for _, label := range []string{"Elrond " + suffix, "Elros " + suffix, "Arwen Undomiel " + suffix} {
		resource := &model.Resource{IRI: testRes + uuid.NewString(), Label: label, TypeIRI: typeIRI, Primary: true}
		require.NoError(t, resourcesDbHandler.UpsertResource(resource))
	}

	t.Run("Select resources by type ordered by label", func(t *testing.T) {
		resources, err := resourcesDbHandler.SelectResourcesByType(typeIRI, 10)
		assert.NoError(t, err, "Expected SelectResourcesByType to not return an error")
		require.Len(t, resources, 3)
		assert.Equal(t, "Arwen Undomiel "+suffix, resources[0].Label, "Expected label order")
	})

	t.Run("Select resources by type with limit", func(t *testing.T) {
		resources, err := resourcesDbHandler.SelectResourcesByType(typeIRI, 2)
		require.NoError(t, err)
		assert.Len(t, resources, 2, "Expected limit to be applied")
	})

	t.Run("Search resources ignores case and ranks prefixes first", func(t *testing.T) {
		resources, err := resourcesDbHandler.SearchResources("ELRO", 10)
		assert.NoError(t, err, "Expected SearchResources to not return an error")
		require.GreaterOrEqual(t, len(resources), 2)
		for _, resource := range resources[:2] {
			assert.Contains(t, resource.Label, "Elro", "Expected prefix matches first")
		}
	})

	t.Run("Search resources by exact label", func(t *testing.T) {
		resources, err := resourcesDbHandler.SearchResources("elrond "+suffix, 10)
		require.NoError(t, err)
		require.Len(t, resources, 1)
		assert.Equal(t, "Elrond "+suffix, resources[0].Label)
	})

	t.Run("Count resources", func(t *testing.T) {
		count, err := resourcesDbHandler.CountResources()
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, count, 3)
	})
}

func TestResourcesSimilarity(t *testing.T) {
	resourcesDbHandler := initResourcesHandler(t)

	suffix := uuid.NewString()
	near := &model.Resource{IRI: testRes + "Near_" + suffix, Label: "Near"}
	far := &model.Resource{IRI: testRes + "Far_" + suffix, Label: "Far"}
	require.NoError(t, resourcesDbHandler.UpsertResource(near))
	require.NoError(t, resourcesDbHandler.UpsertResource(far))

	t.Run("Update embedding", func(t *testing.T) {
		err := resourcesDbHandler.UpdateResourceEmbedding(near.IRI, []float32{1, 0, 0, 0})
		assert.NoError(t, err, "Expected UpdateResourceEmbedding to not return an error")
		require.NoError(t, resourcesDbHandler.UpdateResourceEmbedding(far.IRI, []float32{0, 1, 0, 0}))

		selected, err := resourcesDbHandler.SelectResource(near.IRI)
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 0, 0, 0}, selected.Embedding, "Expected embedding to be stored")
	})

	t.Run("Update embedding with wrong dimension", func(t *testing.T) {
		err := resourcesDbHandler.UpdateResourceEmbedding(near.IRI, []float32{1, 0})
		assert.Error(t, err, "Expected error for wrong dimension")
	})

	t.Run("Upsert keeps the embedding", func(t *testing.T) {
		again := &model.Resource{IRI: near.IRI, Label: "Near"}
		require.NoError(t, resourcesDbHandler.UpsertResource(again))
		assert.Len(t, again.Embedding, testEmbeddingDim, "Expected embedding to survive an upsert")
	})

	t.Run("Select by similarity", func(t *testing.T) {
		resources, err := resourcesDbHandler.SelectResourcesBySimilarity([]float32{0.9, 0.1, 0, 0}, 10, 0.5)
		assert.NoError(t, err, "Expected SelectResourcesBySimilarity to not return an error")
		require.NotEmpty(t, resources)
		assert.Equal(t, near.IRI, resources[0].IRI, "Expected the nearest resource first")
		require.NotNil(t, resources[0].Similarity)
		assert.Greater(t, *resources[0].Similarity, 0.9, "Expected high similarity")
		for _, resource := range resources {
			assert.NotEqual(t, far.IRI, resource.IRI, "Expected threshold to filter the far resource")
		}
	})
}
