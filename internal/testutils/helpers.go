package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// SetupTestRepo creates a temporary directory and initializes a Loam repository in it.
// It returns the absolute path to the temp dir and the initialized repository.
// It fails the test immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// WriteIndexes writes one markdown document per knowledge-base index into dir,
// with the entries in its frontmatter.
func WriteIndexes(t *testing.T, dir string, indexes map[string]map[string]any) {
	t.Helper()

	for name, entries := range indexes {
		front, err := yaml.Marshal(map[string]any{"entries": entries})
		require.NoError(t, err)

		content := "---\n" + string(front) + "---\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".md"), []byte(content), 0o644))
	}
}

// WriteKnowledgeYAML writes indexes as a single YAML knowledge file and returns its path.
func WriteKnowledgeYAML(t *testing.T, dir string, indexes map[string]map[string]any) string {
	t.Helper()

	data, err := yaml.Marshal(indexes)
	require.NoError(t, err)

	path := filepath.Join(dir, "knowledge.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
