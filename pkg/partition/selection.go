package partition

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Selection names the runs to load into one merged table:
//
//	{"name": "karate", "runs": [{"chi": 0.5, "seeds": [17, 23]}]}
type Selection struct {
	Name string         `json:"name"`
	Runs []SelectionRun `json:"runs"`
}

// SelectionRun selects the seeds to include for one chi value
type SelectionRun struct {
	Chi   float64  `json:"chi"`
	Seeds []uint32 `json:"seeds"`
}

// LoadSelectionFile reads a selection from a JSON file
func LoadSelectionFile(path string) (Selection, error) {
	var sel Selection
	content, err := os.ReadFile(path)
	if err != nil {
		return sel, fmt.Errorf("failed to read selection file %s: %w", path, err)
	}
	if err := json.Unmarshal(content, &sel); err != nil {
		return sel, fmt.Errorf("failed to parse selection file %s: %w", path, err)
	}
	return sel, nil
}

// LoadSelection loads every selected partition and merges them into one
// table. The key file is looked up as key_<name>.<ext> in preprocessedDir;
// partitions are discovered in clusteringDir. Seed columns are used whenever
// a run selects more than one seed.
func LoadSelection(sel Selection, preprocessedDir, clusteringDir, ext, indexName string, logger zerolog.Logger) (*Table, error) {
	if ext == "" {
		ext = "txt"
	}
	keyFile := filepath.Join(preprocessedDir, fmt.Sprintf("key_%s.%s", sel.Name, ext))

	available, err := Available(clusteringDir)
	if err != nil {
		return nil, err
	}

	var tables []*Table
	for _, run := range sel.Runs {
		includeSeed := len(run.Seeds) > 1
		wanted := make(map[uint32]bool, len(run.Seeds))
		for _, seed := range run.Seeds {
			wanted[seed] = true
		}

		for _, fi := range available {
			if fi.Name != sel.Name || fi.Chi != run.Chi || !wanted[fi.Seed] {
				continue
			}
			logger.Info().
				Str("partition", fi.Path).
				Str("key", keyFile).
				Msg("Loading partition")

			table, err := Load(keyFile, fi.Path, includeSeed, indexName)
			if err != nil {
				return nil, err
			}
			tables = append(tables, table)
		}
	}

	if len(tables) == 0 {
		return nil, fmt.Errorf("no partitions in %s match selection %q", clusteringDir, sel.Name)
	}
	return MergeAll(tables...)
}
