package partition

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableOf builds a single-column table by hand
func tableOf(t *testing.T, label, dataset string, nodes []string, values []int) *Table {
	t.Helper()
	require.Equal(t, len(nodes), len(values))
	table := NewTable("")
	for i, node := range nodes {
		table.index = append(table.index, node)
		table.pos[node] = i
	}
	table.Columns = append(table.Columns, Column{Label: label, Dataset: dataset, values: values})
	return table
}

func TestMergeDisjointNodeSetsZeroFills(t *testing.T) {
	left := tableOf(t, "0.5", "a", []string{"1", "2"}, []int{1, 2})
	right := tableOf(t, "1.5", "a", []string{"3", "4"}, []int{5, 6})

	merged := left.Merge(right)

	assert.Equal(t, 4, merged.Len())
	assert.Equal(t, 1, merged.Get("1", "0.5"))
	assert.Equal(t, 0, merged.Get("3", "0.5")) // absent from the left run
	assert.Equal(t, 5, merged.Get("3", "1.5"))
	assert.Equal(t, 0, merged.Get("1", "1.5")) // absent from the right run
}

func TestMergeOverlappingNodeSets(t *testing.T) {
	left := tableOf(t, "0.5", "a", []string{"1", "2"}, []int{1, 2})
	right := tableOf(t, "1.5", "a", []string{"2", "3"}, []int{7, 8})

	merged := left.Merge(right)

	assert.Equal(t, []string{"1", "2", "3"}, merged.Index())
	assert.Equal(t, 7, merged.Get("2", "1.5"))
	assert.Equal(t, 2, merged.Get("2", "0.5"))
}

func TestMergeDisambiguatesDuplicateLabels(t *testing.T) {
	left := tableOf(t, "0.5", "karate", []string{"1"}, []int{1})
	right := tableOf(t, "0.5", "jazz", []string{"1"}, []int{9})

	merged := left.Merge(right)

	require.Len(t, merged.Columns, 2)
	assert.Equal(t, "0.5", merged.Columns[0].Label)
	assert.Equal(t, "0.5_jazz", merged.Columns[1].Label)
	assert.Equal(t, 9, merged.Get("1", "0.5_jazz"))
}

func TestMergeAllRequiresAtLeastOneTable(t *testing.T) {
	_, err := MergeAll()
	require.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	left := tableOf(t, "0.5", "a", []string{"10", "20"}, []int{1, 2})
	right := tableOf(t, "1.5", "a", []string{"20", "30"}, []int{3, 4})
	merged := left.Merge(right)

	var sb strings.Builder
	require.NoError(t, merged.WriteCSV(&sb))

	expected := "bodyId,0.5,1.5\n10,1,0\n20,2,3\n30,0,4\n"
	assert.Equal(t, expected, sb.String())
}

func TestLoadSelectionMergesMatchingRuns(t *testing.T) {
	preprocessed := t.TempDir()
	clustering := t.TempDir()

	writeFile(t, preprocessed, "key_karate.txt", "100 1\n200 2\n")
	writeFile(t, clustering, "partition_karate_11-0.5-a.txt", "1\n1\n")
	writeFile(t, clustering, "partition_karate_22-0.5-b.txt", "1\n2\n")
	writeFile(t, clustering, "partition_karate_11-1.5-c.txt", "2\n2\n")
	writeFile(t, clustering, "partition_jazz_11-0.5-d.txt", "3\n3\n") // other dataset

	sel := Selection{
		Name: "karate",
		Runs: []SelectionRun{
			{Chi: 0.5, Seeds: []uint32{11, 22}},
			{Chi: 1.5, Seeds: []uint32{11}},
		},
	}

	table, err := LoadSelection(sel, preprocessed, clustering, "txt", "", zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, table.Columns, 3)
	// two seeds at chi=0.5 get seed-qualified labels, the lone chi=1.5 does not
	assert.Equal(t, "0.5_11", table.Columns[0].Label)
	assert.Equal(t, "0.5_22", table.Columns[1].Label)
	assert.Equal(t, "1.5", table.Columns[2].Label)
	assert.Equal(t, 2, table.Get("200", "0.5_22"))
	assert.Equal(t, 2, table.Get("100", "1.5"))
}

func TestLoadSelectionNoMatchesIsError(t *testing.T) {
	sel := Selection{Name: "karate", Runs: []SelectionRun{{Chi: 0.5, Seeds: []uint32{1}}}}
	_, err := LoadSelection(sel, t.TempDir(), t.TempDir(), "txt", "", zerolog.Nop())
	require.Error(t, err)
}

func TestLoadSelectionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selected.json")
	content := `{"name": "karate", "runs": [{"chi": 0.5, "seeds": [17, 23]}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	sel, err := LoadSelectionFile(path)
	require.NoError(t, err)
	assert.Equal(t, "karate", sel.Name)
	require.Len(t, sel.Runs, 1)
	assert.Equal(t, []uint32{17, 23}, sel.Runs[0].Seeds)
}
