package pipeline

import (
	"fmt"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/model"
)

// DefaultEmbeddingModel produces 384-dimensional embeddings.
const DefaultEmbeddingModel = "sentence-transformers/all-MiniLM-L6-v2"

// DefaultEmbedder creates an embedder for resource labels using a sentence
// transformer model cached in modelDir.
func DefaultEmbedder(modelDir string) (EmbedFunc, error) {
	modelPath, err := helper.PrepareModel(modelDir, DefaultEmbeddingModel, "onnx/model.onnx")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "label-embedder",
	}
	sentencePipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create sentence pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create sentence pipeline: %w", err)
	}

	// the go backend session is not safe for concurrent runs
	var mu sync.Mutex
	return func(text string) ([]float32, error) {
		mu.Lock()
		defer mu.Unlock()

		result, err := sentencePipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding: %w", err)
		}
		if len(result.Embeddings) == 0 {
			return nil, fmt.Errorf("no embedding generated")
		}
		return result.Embeddings[0], nil
	}, nil
}

// EmbedResources sets the embedding of every resource with a label.
// Resources that already have an embedding are left alone.
func EmbedResources(resources []*model.Resource, embed EmbedFunc) error {
	if embed == nil {
		return nil
	}
	for _, resource := range resources {
		if len(resource.Embedding) > 0 || strings.TrimSpace(resource.Label) == "" {
			continue
		}
		embedding, err := embed(resource.Label)
		if err != nil {
			return helper.NewError(fmt.Sprintf("embed %s", resource.IRI), err)
		}
		resource.Embedding = embedding
	}
	return nil
}
