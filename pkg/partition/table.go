package partition

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Column is one partition in a table: the cluster assignment of every
// indexed node for a single (chi) or (chi, seed) run.
type Column struct {
	Label   string
	Dataset string
	Chi     float64
	Seed    uint32
	HasSeed bool

	values []int // aligned with the table index
}

func (c Column) defaultLabel() string {
	label := strconv.FormatFloat(c.Chi, 'g', -1, 64)
	if c.HasSeed {
		label += "_" + strconv.FormatUint(uint64(c.Seed), 10)
	}
	return label
}

// Table holds merged partitions: rows are original node ids, columns are
// runs. Missing entries are zero, meaning the node was absent from that run.
type Table struct {
	IndexName string
	Columns   []Column

	index []string
	pos   map[string]int
}

// NewTable creates an empty table indexed by the given id column name
func NewTable(indexName string) *Table {
	if indexName == "" {
		indexName = DefaultIndexName
	}
	return &Table{
		IndexName: indexName,
		pos:       make(map[string]int),
	}
}

// Len returns the number of indexed nodes
func (t *Table) Len() int { return len(t.index) }

// Index returns the node ids in row order
func (t *Table) Index() []string {
	index := make([]string, len(t.index))
	copy(index, t.index)
	return index
}

// Get returns the cluster id of a node in the labeled column; absent nodes
// or unknown labels report zero.
func (t *Table) Get(node, label string) int {
	row, ok := t.pos[node]
	if !ok {
		return 0
	}
	for _, col := range t.Columns {
		if col.Label == label {
			return col.values[row]
		}
	}
	return 0
}

// Merge outer-joins another table into this one on node id. Rows present on
// only one side get zero-filled entries on the other. A column label already
// in use is disambiguated with the incoming dataset name.
func (t *Table) Merge(other *Table) *Table {
	merged := NewTable(t.IndexName)

	merged.index = append(merged.index, t.index...)
	for i, node := range merged.index {
		merged.pos[node] = i
	}
	for _, node := range other.index {
		if _, ok := merged.pos[node]; !ok {
			merged.pos[node] = len(merged.index)
			merged.index = append(merged.index, node)
		}
	}

	labels := make(map[string]bool)
	for _, col := range t.Columns {
		labels[col.Label] = true
		merged.Columns = append(merged.Columns, remapColumn(col, t, merged))
	}
	for _, col := range other.Columns {
		if labels[col.Label] {
			col.Label = col.Label + "_" + col.Dataset
		}
		labels[col.Label] = true
		merged.Columns = append(merged.Columns, remapColumn(col, other, merged))
	}
	return merged
}

// remapColumn re-aligns a column's values with the merged index, zero fill
func remapColumn(col Column, from, to *Table) Column {
	values := make([]int, len(to.index))
	for node, row := range from.pos {
		values[to.pos[node]] = col.values[row]
	}
	col.values = values
	return col
}

// MergeAll folds a list of tables into one with repeated outer joins
func MergeAll(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("no tables to merge")
	}
	merged := tables[0]
	for _, table := range tables[1:] {
		merged = merged.Merge(table)
	}
	return merged, nil
}

// WriteCSV writes the table with the index as the first column
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(t.Columns)+1)
	header = append(header, t.IndexName)
	for _, col := range t.Columns {
		header = append(header, col.Label)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(header))
	for row, node := range t.index {
		record[0] = node
		for i, col := range t.Columns {
			record[i+1] = strconv.Itoa(col.values[row])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row for node %s: %w", node, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
