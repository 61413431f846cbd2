package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
	"github.com/stretchr/testify/require"
)

// WriteFile creates name with content in a fresh temporary directory and returns its path.
// It fails the test immediately on error.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write %s", name)
	return path
}

// NewModel builds a model and fails the test if it is invalid.
func NewModel(t *testing.T, matrix [][]float64, labels []string, terminal ...int) *domain.Model {
	t.Helper()

	m, err := domain.NewModel(matrix, labels, terminal...)
	require.NoError(t, err, "Failed to build model")
	return m
}
