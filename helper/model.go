package helper

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
)

// DefaultModelDir is where embedding models are cached.
const DefaultModelDir = "./models"

// ModelPath returns the cache location of a hugging face model inside modelDir.
func ModelPath(modelDir string, modelName string) string {
	return filepath.Join(modelDir, strings.ReplaceAll(modelName, "/", "_"))
}

// PrepareModel downloads modelName into modelDir unless it is cached already
// and returns the local path. onnxFilePath selects the onnx file inside the repo.
func PrepareModel(modelDir string, modelName string, onnxFilePath string) (string, error) {
	if modelDir == "" {
		modelDir = DefaultModelDir
	}
	modelPath := ModelPath(modelDir, modelName)

	if _, err := os.Stat(modelPath); err == nil {
		return modelPath, nil
	} else if !os.IsNotExist(err) {
		return "", NewError("stat model directory", err)
	}

	if err := os.MkdirAll(modelDir, 0750); err != nil {
		return "", NewError("create model directory", err)
	}

	downloadOptions := hugot.NewDownloadOptions()
	if onnxFilePath != "" {
		downloadOptions.OnnxFilePath = onnxFilePath
	}
	downloadedPath, err := hugot.DownloadModel(modelName, modelDir, downloadOptions)
	if err != nil {
		return "", NewError("download model", err)
	}

	return downloadedPath, nil
}
