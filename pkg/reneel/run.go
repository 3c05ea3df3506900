package reneel

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// companionPrefixes are the files the formatter writes next to each
// edgelist; the executable expects them in its working directory.
var companionPrefixes = []string{"clean_", "degree_", "info_"}

// Run tracks the input and output files of one invocation of the
// reneel executable.
type Run struct {
	ID                 string   `json:"id"`
	EdgelistFile       string   `json:"edgelist_file"`
	Seed               uint32   `json:"seed"`
	Chi                float64  `json:"chi"`
	RGEnsembleSize     int      `json:"rg_ensemble_size"`
	ReneelEnsembleSize int      `json:"reneel_ensemble_size"`
	RGParameter        int      `json:"rg_parameter"`
	AssociatedFiles    []string `json:"associated_files"`
	PartitionFile      string   `json:"partition_file,omitempty"`
	ResultsFile        string   `json:"results_file,omitempty"`
	WallTimeSeconds    float64  `json:"wall_time_seconds"`
	ExitCode           int      `json:"exit_code"`
}

// NewRun builds a run record for one (seed, chi) invocation. The edgelist
// and every companion file must already exist; a missing file is an error
// here rather than halfway through a sweep.
func NewRun(edgelistFile string, seed uint32, chi float64, rgSize, reneelSize, rgParameter int) (*Run, error) {
	if _, err := os.Stat(edgelistFile); err != nil {
		return nil, fmt.Errorf("missing edgelist file %s: %w", edgelistFile, err)
	}

	run := &Run{
		ID:                 uuid.New().String(),
		EdgelistFile:       edgelistFile,
		Seed:               seed,
		Chi:                chi,
		RGEnsembleSize:     rgSize,
		ReneelEnsembleSize: reneelSize,
		RGParameter:        rgParameter,
	}

	for _, prefix := range companionPrefixes {
		file := prefixedPath(edgelistFile, prefix)
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("can't find associated file %s: %w", file, err)
		}
		run.AssociatedFiles = append(run.AssociatedFiles, file)
	}
	return run, nil
}

// prefixedPath prepends a prefix to the filename, keeping the directory:
// /data/karate.txt -> /data/clean_karate.txt
func prefixedPath(path, prefix string) string {
	return filepath.Join(filepath.Dir(path), prefix+filepath.Base(path))
}

// suffixedName inserts a suffix before the extension of a filename:
// partition_karate.txt -> partition_karate_17-0.5-abc123.txt
func suffixedName(name, suffix string) string {
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)] + suffix + ext
}
