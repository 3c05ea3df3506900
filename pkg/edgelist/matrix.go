package edgelist

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
)

// Orientation says which axis of a connectivity matrix holds the source nodes
type Orientation int

const (
	RowsPre Orientation = iota // row label is the source of each edge
	ColsPre                    // column label is the source of each edge
)

// WeightedEdge is one entry of a stacked connectivity matrix
type WeightedEdge struct {
	From   string
	To     string
	Weight float64
}

// LoadMatrix reads a labeled connectivity matrix from a CSV file: a header
// row of column labels (first cell is the index name and is ignored) and one
// row label in the first column of every following row.
func LoadMatrix(path string, logger zerolog.Logger) (*mat.Dense, []string, []string, error) {
	logger.Info().Str("file", path).Msg("Reading connectivity matrix")

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open matrix file %s: %w", path, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to parse matrix file %s: %w", path, err)
	}
	if len(records) < 2 || len(records[0]) < 2 {
		return nil, nil, nil, fmt.Errorf("matrix file %s: need a header row and at least one data row", path)
	}

	cols := records[0][1:]
	rows := make([]string, 0, len(records)-1)
	data := make([]float64, 0, (len(records)-1)*len(cols))

	for i, record := range records[1:] {
		if len(record) != len(cols)+1 {
			return nil, nil, nil, fmt.Errorf("matrix file %s: row %d has %d cells, expected %d",
				path, i+2, len(record), len(cols)+1)
		}
		rows = append(rows, record[0])
		for _, cell := range record[1:] {
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("matrix file %s: row %d: invalid value %q: %w",
					path, i+2, cell, err)
			}
			data = append(data, value)
		}
	}

	return mat.NewDense(len(rows), len(cols), data), rows, cols, nil
}

// MatrixToEdges stacks a connectivity matrix into a weighted edge list,
// dropping entries at or below the threshold. The orientation selects
// whether rows or columns are treated as the presynaptic side.
func MatrixToEdges(m *mat.Dense, rows, cols []string, orient Orientation, threshold float64) []WeightedEdge {
	r, c := m.Dims()
	edges := make([]WeightedEdge, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			w := m.At(i, j)
			if w <= threshold {
				continue
			}
			edge := WeightedEdge{From: rows[i], To: cols[j], Weight: w}
			if orient == ColsPre {
				edge.From, edge.To = edge.To, edge.From
			}
			edges = append(edges, edge)
		}
	}
	return edges
}

// WriteEdgeList writes stacked matrix edges as `u v w` lines, ready for Format
func WriteEdgeList(path string, edges []WeightedEdge, wtype WeightType, logger zerolog.Logger) error {
	logger.Info().Str("file", path).Int("edges", len(edges)).Msg("Writing edge list")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	for _, edge := range edges {
		if _, err := fmt.Fprintf(file, "%s %s %s\n", edge.From, edge.To, formatWeight(edge.Weight, wtype)); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}
