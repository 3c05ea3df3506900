package edgelist

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Prefixes reserved for the companion files written next to each formatted
// edgelist. Using one of these as an output prefix would shadow them.
var reservedPrefixes = []string{"clean_", "key_", "degree_", "info_", "original_"}

// Naming controls how output files are derived from the source filename.
// The dataset name is the source stem with InPrefix/InSuffix stripped;
// outputs are named [kind]_[dataset][Suffix].[ext] in the output directory.
type Naming struct {
	OutputDir string // empty means the source file's directory
	InPrefix  string
	InSuffix  string
	Prefix    string
	Suffix    string
}

// Result records the files written for one formatted edgelist
type Result struct {
	Name       string `json:"name"`
	CleanFile  string `json:"clean_file"`
	KeyFile    string `json:"key_file"`
	InfoFile   string `json:"info_file"`
	DegreeFile string `json:"degree_file"`
	NumNodes   int    `json:"num_nodes"`
	NumEdges   int    `json:"num_edges"`
	SelfLoops  int    `json:"self_loops"`
}

// Format reads, aggregates and renumbers one edgelist file, then writes the
// clean_, key_, info_ and degree_ companion files the reneel executable and
// the partition loader expect.
func Format(source string, opts Options, naming Naming, logger zerolog.Logger) (*Result, error) {
	prefix := underscorePrefix(naming.Prefix)
	suffix := underscoreSuffix(naming.Suffix)
	for _, reserved := range reservedPrefixes {
		if prefix == reserved {
			return nil, fmt.Errorf("cannot use %q as prefix (reserved prefixes: %s)",
				prefix, strings.Join(reservedPrefixes, ", "))
		}
	}

	name := datasetName(source, naming)
	ext := filepath.Ext(source)

	outputDir := naming.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(source)
		logger.Debug().Str("dir", outputDir).Msg("Inferred output directory")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	g, err := ReadGraph(source, opts, logger)
	if err != nil {
		return nil, err
	}
	mapping := NewMapping(g)

	result := &Result{
		Name:       name,
		CleanFile:  filepath.Join(outputDir, "clean_"+name+suffix+ext),
		KeyFile:    filepath.Join(outputDir, "key_"+name+suffix+ext),
		InfoFile:   filepath.Join(outputDir, "info_"+name+suffix+ext),
		DegreeFile: filepath.Join(outputDir, "degree_"+name+suffix+ext),
		NumNodes:   g.NumNodes(),
		NumEdges:   g.NumEdges(),
		SelfLoops:  g.SelfLoops,
	}

	if err := WriteEdges(result.CleanFile, g, mapping, logger); err != nil {
		return nil, err
	}
	if err := WriteKey(result.KeyFile, mapping, logger); err != nil {
		return nil, err
	}
	if err := WriteInfo(result.InfoFile, g, logger); err != nil {
		return nil, err
	}
	if err := WriteDegree(result.DegreeFile, g, mapping, logger); err != nil {
		return nil, err
	}
	return result, nil
}

// WriteEdges writes the renumbered edgelist, one `u v w` line per
// aggregated edge, in renumbered order for deterministic output.
func WriteEdges(path string, g *Graph, m *Mapping, logger zerolog.Logger) error {
	logger.Info().Str("file", path).Msg("Writing formatted, renumbered edgelist")

	keys := make([]EdgeKey, 0, len(g.Edges))
	for key := range g.Edges {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].U != keys[j].U {
			return lessNode(keys[i].U, keys[j].U, g.opts.NodeType)
		}
		return lessNode(keys[i].V, keys[j].V, g.opts.NodeType)
	})

	return writeLines(path, func(w *bufio.Writer) error {
		for _, key := range keys {
			u, _ := m.NewID(key.U)
			v, _ := m.NewID(key.V)
			if _, err := fmt.Fprintf(w, "%d %d %s\n", u, v, formatWeight(g.Edges[key], g.opts.WeightType)); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteKey writes the mapping, one `original_id new_id` line per node in
// renumbered order.
func WriteKey(path string, m *Mapping, logger zerolog.Logger) error {
	logger.Info().Str("file", path).Msg("Writing node id mapping")
	return writeLines(path, func(w *bufio.Writer) error {
		for i, node := range m.Nodes() {
			if _, err := fmt.Fprintf(w, "%s %d\n", node, i+1); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteInfo writes the node and edge counts (`N M`) on a single line
func WriteInfo(path string, g *Graph, logger zerolog.Logger) error {
	logger.Info().Str("file", path).Msg("Writing info file")
	return writeLines(path, func(w *bufio.Writer) error {
		_, err := fmt.Fprintf(w, "%d %d\n", g.NumNodes(), g.NumEdges())
		return err
	})
}

// WriteDegree writes one `degree strength` line per node in renumbered order
func WriteDegree(path string, g *Graph, m *Mapping, logger zerolog.Logger) error {
	logger.Info().Str("file", path).Msg("Writing degree file")
	return writeLines(path, func(w *bufio.Writer) error {
		for _, node := range m.Nodes() {
			if _, err := fmt.Fprintf(w, "%d %s\n", g.Degrees[node], formatWeight(g.Strength[node], g.opts.WeightType)); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeLines(path string, write func(*bufio.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := write(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// datasetName strips the configured input prefix and suffix from the stem
func datasetName(source string, naming Naming) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	stem = strings.TrimPrefix(stem, underscorePrefix(naming.InPrefix))
	stem = strings.TrimSuffix(stem, underscoreSuffix(naming.InSuffix))
	return stem
}

func underscorePrefix(pre string) string {
	if pre != "" && !strings.HasSuffix(pre, "_") {
		return pre + "_"
	}
	return pre
}

func underscoreSuffix(suf string) string {
	if suf != "" && !strings.HasPrefix(suf, "_") {
		return "_" + suf
	}
	return suf
}
