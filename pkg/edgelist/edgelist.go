package edgelist

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// NodeType controls how node tokens are parsed, compared and sorted.
type NodeType int

const (
	NodeInt NodeType = iota
	NodeString
	NodeFloat
)

// WeightType controls how edge weights are parsed and formatted.
type WeightType int

const (
	WeightInt WeightType = iota
	WeightFloat
)

// Options configures how an edgelist file is read
type Options struct {
	Sep        string // field separator; empty means any whitespace
	Skip       int    // header lines to skip
	Directed   bool   // preserve edge direction (no antiparallel merging)
	NodeType   NodeType
	WeightType WeightType
	UCol       int // column of the source node
	VCol       int // column of the target node
	WCol       int // column of the edge weight
}

// DefaultOptions returns the conventional three-column whitespace layout
func DefaultOptions() Options {
	return Options{UCol: 0, VCol: 1, WCol: 2}
}

// EdgeKey identifies an aggregated edge by its original node tokens.
// In undirected mode U is always the larger endpoint under the node
// type's ordering, so antiparallel duplicates collapse to one key.
type EdgeKey struct {
	U string
	V string
}

// Graph is the aggregated form of an edgelist: parallel (and, if
// undirected, antiparallel) edges are summed, self-loops removed.
type Graph struct {
	Strength  map[string]float64 // node -> total weight of incident edges
	Degrees   map[string]int     // node -> number of incident edges
	Edges     map[EdgeKey]float64
	SelfLoops int // self-loops dropped during reading

	opts Options
}

// NumNodes returns the number of distinct non-isolated nodes
func (g *Graph) NumNodes() int { return len(g.Strength) }

// NumEdges returns the number of aggregated edges (weight ignored)
func (g *Graph) NumEdges() int { return len(g.Edges) }

// Options returns the options the graph was read with
func (g *Graph) Options() Options { return g.opts }

// ReadGraph reads a graph from an edgelist file, combining parallel edges by
// summing their weights; if the options are undirected it also combines
// antiparallel edges. Self-loops are dropped and counted. A line that cannot
// be split or parsed aborts the whole read with an error naming the line.
func ReadGraph(path string, opts Options, logger zerolog.Logger) (*Graph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open edgelist %s: %w", path, err)
	}
	defer file.Close()

	logger.Info().
		Str("file", path).
		Int("skip", opts.Skip).
		Str("sep", opts.Sep).
		Msg("Reading edgelist")

	g := &Graph{
		Strength: make(map[string]float64),
		Degrees:  make(map[string]int),
		Edges:    make(map[EdgeKey]float64),
		opts:     opts,
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	lineno := 0
	for scanner.Scan() {
		lineno++
		if lineno <= opts.Skip {
			continue
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		u, v, w, err := parseLine(line, opts)
		if err != nil {
			logger.Error().
				Int("line", lineno).
				Str("content", line).
				Err(err).
				Msg("Failed to parse edgelist line")
			return nil, fmt.Errorf("line %d of %s: %w", lineno, path, err)
		}

		if !opts.Directed && lessNode(u, v, opts.NodeType) {
			u, v = v, u
		}
		if u == v {
			logger.Debug().
				Int("line", lineno).
				Str("node", u).
				Msg("Ignoring self-loop")
			g.SelfLoops++
			continue
		}

		g.Strength[u] += w
		g.Strength[v] += w
		g.Degrees[u]++
		g.Degrees[v]++
		g.Edges[EdgeKey{U: u, V: v}] += w
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	logger.Info().
		Int("nodes", g.NumNodes()).
		Int("edges", g.NumEdges()).
		Int("self_loops", g.SelfLoops).
		Msg("Finished reading edgelist")

	return g, nil
}

func parseLine(line string, opts Options) (u, v string, w float64, err error) {
	var fields []string
	if opts.Sep == "" {
		fields = strings.Fields(line)
	} else {
		fields = strings.Split(line, opts.Sep)
	}

	maxCol := opts.UCol
	if opts.VCol > maxCol {
		maxCol = opts.VCol
	}
	if opts.WCol > maxCol {
		maxCol = opts.WCol
	}
	if len(fields) <= maxCol {
		return "", "", 0, fmt.Errorf("expected at least %d columns, got %d", maxCol+1, len(fields))
	}

	u, err = parseNode(fields[opts.UCol], opts.NodeType)
	if err != nil {
		return "", "", 0, err
	}
	v, err = parseNode(fields[opts.VCol], opts.NodeType)
	if err != nil {
		return "", "", 0, err
	}
	w, err = parseWeight(fields[opts.WCol], opts.WeightType)
	if err != nil {
		return "", "", 0, err
	}
	return u, v, w, nil
}

// parseNode validates a node token and returns its canonical form, so that
// e.g. "07" and "7" aggregate to the same integer node.
func parseNode(token string, t NodeType) (string, error) {
	token = strings.TrimSpace(token)
	switch t {
	case NodeInt:
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid integer node %q: %w", token, err)
		}
		return strconv.FormatInt(n, 10), nil
	case NodeFloat:
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return "", fmt.Errorf("invalid float node %q: %w", token, err)
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	default:
		if token == "" {
			return "", fmt.Errorf("empty node token")
		}
		return token, nil
	}
}

func parseWeight(token string, t WeightType) (float64, error) {
	token = strings.TrimSpace(token)
	if t == WeightInt {
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid integer weight %q: %w", token, err)
		}
		return float64(n), nil
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float weight %q: %w", token, err)
	}
	return f, nil
}

// lessNode orders canonical node tokens under the given node type
func lessNode(a, b string, t NodeType) bool {
	switch t {
	case NodeInt:
		na, _ := strconv.ParseInt(a, 10, 64)
		nb, _ := strconv.ParseInt(b, 10, 64)
		return na < nb
	case NodeFloat:
		fa, _ := strconv.ParseFloat(a, 64)
		fb, _ := strconv.ParseFloat(b, 64)
		return fa < fb
	default:
		return a < b
	}
}

// formatWeight renders an aggregated weight for output files
func formatWeight(w float64, t WeightType) string {
	if t == WeightInt {
		return strconv.FormatInt(int64(w), 10)
	}
	return strconv.FormatFloat(w, 'g', -1, 64)
}
