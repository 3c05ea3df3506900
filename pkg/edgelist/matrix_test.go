package edgelist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMatrix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.csv")
	content := "bodyId,10,20\n10,0,3\n20,1,0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, rows, cols, err := LoadMatrix(path, testLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"10", "20"}, rows)
	assert.Equal(t, []string{"10", "20"}, cols)
	assert.Equal(t, 3.0, m.At(0, 1))
	assert.Equal(t, 1.0, m.At(1, 0))
}

func TestLoadMatrixRejectsRaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,a,b\nx,1\n"), 0644))

	_, _, _, err := LoadMatrix(path, testLogger())
	require.Error(t, err)
}

func TestMatrixToEdgesThresholdAndOrientation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.csv")
	content := "bodyId,a,b\nr1,0,5\nr2,2,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, rows, cols, err := LoadMatrix(path, testLogger())
	require.NoError(t, err)

	edges := MatrixToEdges(m, rows, cols, RowsPre, 1)
	require.Len(t, edges, 2)
	assert.Contains(t, edges, WeightedEdge{From: "r1", To: "b", Weight: 5})
	assert.Contains(t, edges, WeightedEdge{From: "r2", To: "a", Weight: 2})

	flipped := MatrixToEdges(m, rows, cols, ColsPre, 1)
	assert.Contains(t, flipped, WeightedEdge{From: "b", To: "r1", Weight: 5})
}

func TestWriteEdgeList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.txt")
	edges := []WeightedEdge{{From: "1", To: "2", Weight: 3}}
	require.NoError(t, WriteEdgeList(path, edges, WeightInt, testLogger()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1 2 3\n", string(content))
}
