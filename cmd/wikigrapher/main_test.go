package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err, "Expected version to succeed")
	assert.Contains(t, out, "wikigrapher version "+Version, "Expected version line")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"), "Expected debug level")
	assert.Equal(t, slog.LevelWarn, parseLevel(" warn "), "Expected warn level")
	assert.Equal(t, slog.LevelError, parseLevel("error"), "Expected error level")
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"), "Expected info as fallback")
}

func TestBuildAndMerge(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	infoboxes := filepath.Join(dir, "infoboxes")
	require.NoError(t, os.MkdirAll(infoboxes, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(infoboxes, "infobox_001.txt"), []byte(`--- Frodo Baggins ---
{{Infobox character
| name = Frodo Baggins
| birthlocation = [[Bag End]]
| gender = Male
}}
`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(infoboxes, "infobox_002.txt"), []byte(`--- Sam ---
Just prose.
`), 0600))
	t.Setenv("INFOBOX_DIR", infoboxes)

	output := filepath.Join(dir, "rdf", "graph.nt")
	reports := filepath.Join(dir, "reports.json")

	t.Run("Valid call build", func(t *testing.T) {
		out, err := run(t, "build", "--output", output, "--report", reports, "--log-level", "error")
		require.NoError(t, err, "Expected build to succeed")
		assert.Contains(t, out, "pages=2", "Expected page count")
		assert.Contains(t, out, "ok=1", "Expected one ok page")
		assert.Contains(t, out, "not_found=1", "Expected one page without infobox")

		graph, err := os.ReadFile(output)
		require.NoError(t, err, "Expected graph file")
		assert.Contains(t, string(graph), "<http://tolkien-kg.org/resource/Frodo_Baggins>", "Expected subject in graph")
		assert.Contains(t, string(graph), "<http://tolkien-kg.org/resource/Bag_End>", "Expected linked location")

		reportData, err := os.ReadFile(reports)
		require.NoError(t, err, "Expected report file")
		assert.Contains(t, string(reportData), `"status": "not_found"`, "Expected not_found report")
	})

	t.Run("Valid call merge", func(t *testing.T) {
		merged := filepath.Join(dir, "merged.ttl")
		out, err := run(t, "merge", output, output, "--output", merged, "--log-level", "error")
		require.NoError(t, err, "Expected merge to succeed")
		assert.Contains(t, out, "files=2", "Expected file count")

		data, err := os.ReadFile(merged)
		require.NoError(t, err, "Expected merged file")
		assert.Contains(t, string(data), `"Frodo Baggins"@en`, "Expected english label")
	})

	t.Run("Invalid call merge without files", func(t *testing.T) {
		_, err := run(t, "merge")
		assert.Error(t, err, "Expected error without files")
	})
}

func TestServeUnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := run(t, "serve", "--backend", "memory", "--log-level", "error")
	assert.ErrorContains(t, err, "unknown backend", "Expected backend error")
}
