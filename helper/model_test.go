package helper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelPath(t *testing.T) {
	t.Run("Model name with slash is flattened", func(t *testing.T) {
		path := ModelPath("./models", "sentence-transformers/all-MiniLM-L6-v2")
		assert.Equal(t, filepath.Join("./models", "sentence-transformers_all-MiniLM-L6-v2"), path, "Expected slash to be replaced")
	})

	t.Run("Model name without slash is kept", func(t *testing.T) {
		path := ModelPath("/tmp/m", "simple-model")
		assert.Equal(t, filepath.Join("/tmp/m", "simple-model"), path, "Expected model name to be used directly")
	})
}

func TestPrepareModel(t *testing.T) {
	t.Run("Return existing model path when model exists", func(t *testing.T) {
		modelDir := t.TempDir()
		modelPath := ModelPath(modelDir, "test/mock-model")
		require.NoError(t, os.MkdirAll(modelPath, 0750), "Expected directory creation to succeed")

		path, err := PrepareModel(modelDir, "test/mock-model", "onnx/model.onnx")
		assert.NoError(t, err, "Expected PrepareModel to not return an error for existing model")
		assert.Equal(t, modelPath, path, "Expected returned path to match existing model path")
	})

	t.Run("Download failure is wrapped", func(t *testing.T) {
		if testing.Short() {
			t.Skip("requires network access")
		}
		modelDir := t.TempDir()

		_, err := PrepareModel(modelDir, "wikigrapher/does-not-exist", "")
		if err != nil {
			assert.Contains(t, err.Error(), "download model", "Expected download error to be wrapped")
		}
	})
}
