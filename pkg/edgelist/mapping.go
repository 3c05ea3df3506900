package edgelist

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Mapping is a bijection between original node identifiers and the dense
// integers 1..N expected by the reneel executable.
type Mapping struct {
	toNew  map[string]int
	toOrig []string // toOrig[i-1] is the original id of new id i
}

// NewMapping renumbers the graph's nodes 1..N in sorted node order
func NewMapping(g *Graph) *Mapping {
	nodes := make([]string, 0, len(g.Strength))
	for node := range g.Strength {
		nodes = append(nodes, node)
	}
	sortNodes(nodes, g.opts.NodeType)

	m := &Mapping{
		toNew:  make(map[string]int, len(nodes)),
		toOrig: nodes,
	}
	for i, node := range nodes {
		m.toNew[node] = i + 1
	}
	return m
}

// Len returns the number of mapped nodes
func (m *Mapping) Len() int { return len(m.toOrig) }

// NewID returns the dense id assigned to an original node
func (m *Mapping) NewID(original string) (int, bool) {
	id, ok := m.toNew[original]
	return id, ok
}

// OriginalID inverts the mapping for a dense id in 1..N
func (m *Mapping) OriginalID(id int) (string, bool) {
	if id < 1 || id > len(m.toOrig) {
		return "", false
	}
	return m.toOrig[id-1], true
}

// Nodes returns the original ids in renumbered (sorted) order
func (m *Mapping) Nodes() []string {
	nodes := make([]string, len(m.toOrig))
	copy(nodes, m.toOrig)
	return nodes
}

func sortNodes(nodes []string, t NodeType) {
	sort.Slice(nodes, func(i, j int) bool {
		return lessNode(nodes[i], nodes[j], t)
	})
}

// ReadKey loads a key file back into a dense-id -> original-id lookup.
// Two layouts are accepted: `original new` pairs, and the legacy layout of
// one original id per line where the line number is the dense id.
func ReadKey(path string) (map[int]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file %s: %w", path, err)
	}
	defer file.Close()

	unmapper := make(map[int]string)
	scanner := bufio.NewScanner(file)
	lineno := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lineno++
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			newID, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("key file %s: invalid dense id %q: %w", path, fields[1], err)
			}
			unmapper[newID] = fields[0]
		} else {
			unmapper[lineno] = fields[0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read key file %s: %w", path, err)
	}
	return unmapper, nil
}
