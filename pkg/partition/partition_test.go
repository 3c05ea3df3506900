package partition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseFileNameRunSuffix(t *testing.T) {
	fi, err := ParseFileName("/results/partition_karate_17289-0.5-tmp123.txt")
	require.NoError(t, err)

	assert.Equal(t, "partition", fi.Type)
	assert.Equal(t, "karate", fi.Name)
	assert.Equal(t, uint32(17289), fi.Seed)
	assert.Equal(t, 0.5, fi.Chi)
	assert.Equal(t, "tmp123", fi.TmpID)
	assert.True(t, fi.HasRunSuffix)
}

func TestParseFileNameKeyFile(t *testing.T) {
	fi, err := ParseFileName("key_karate.txt")
	require.NoError(t, err)

	assert.Equal(t, "key", fi.Type)
	assert.Equal(t, "karate", fi.Name)
	assert.False(t, fi.HasRunSuffix)
}

func TestParseFileNameRejectsUnconventionalNames(t *testing.T) {
	_, err := ParseFileName("noconvention.txt")
	require.Error(t, err)

	_, err = ParseFileName("partition_karate_badsuffix.txt")
	require.Error(t, err)
}

func TestLoadZipsKeyWithPartition(t *testing.T) {
	dir := t.TempDir()
	key := writeFile(t, dir, "key_karate.txt", "100 1\n200 2\n300 3\n")
	part := writeFile(t, dir, "partition_karate_17-0.5-abc.txt", "1\n1\n2\n")

	table, err := Load(key, part, false, "")
	require.NoError(t, err)

	assert.Equal(t, DefaultIndexName, table.IndexName)
	assert.Equal(t, []string{"100", "200", "300"}, table.Index())
	require.Len(t, table.Columns, 1)
	assert.Equal(t, "0.5", table.Columns[0].Label)
	assert.Equal(t, 1, table.Get("100", "0.5"))
	assert.Equal(t, 1, table.Get("200", "0.5"))
	assert.Equal(t, 2, table.Get("300", "0.5"))
}

func TestLoadIncludeSeedLabelsColumnWithSeed(t *testing.T) {
	dir := t.TempDir()
	key := writeFile(t, dir, "key_karate.txt", "100 1\n")
	part := writeFile(t, dir, "partition_karate_17-0.5-abc.txt", "4\n")

	table, err := Load(key, part, true, "")
	require.NoError(t, err)
	assert.Equal(t, "0.5_17", table.Columns[0].Label)
	assert.Equal(t, 4, table.Get("100", "0.5_17"))
}

func TestLoadValidatesFilePair(t *testing.T) {
	dir := t.TempDir()
	key := writeFile(t, dir, "key_karate.txt", "100 1\n")
	part := writeFile(t, dir, "partition_jazz_17-0.5-abc.txt", "1\n")

	_, err := Load(key, part, false, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")

	notKey := writeFile(t, dir, "degree_karate.txt", "1 2\n")
	okPart := writeFile(t, dir, "partition_karate_17-0.5-abc.txt", "1\n")
	_, err = Load(notKey, okPart, false, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not appear to be a key")
}

func TestLoadRejectsLengthMismatch(t *testing.T) {
	dir := t.TempDir()
	key := writeFile(t, dir, "key_karate.txt", "100 1\n200 2\n")
	part := writeFile(t, dir, "partition_karate_17-0.5-abc.txt", "1\n")

	_, err := Load(key, part, false, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entries")
}

func TestAvailableSortsAndSkipsUnparseable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "partition_karate_17-1.5-b.txt", "1\n")
	writeFile(t, dir, "partition_karate_17-0.5-a.txt", "1\n")
	writeFile(t, dir, "partition_jazz_3-0.5-c.txt", "1\n")
	writeFile(t, dir, "partition_karate_5-0.5-d.txt", "1\n")
	writeFile(t, dir, "partition_broken.txt", "1\n")   // no run suffix
	writeFile(t, dir, "key_karate.txt", "100 1\n")     // not a partition
	writeFile(t, dir, "results_karate_17-0.5-a.txt", "") // not a partition

	available, err := Available(dir)
	require.NoError(t, err)

	require.Len(t, available, 4)
	assert.Equal(t, "jazz", available[0].Name)
	assert.Equal(t, uint32(5), available[1].Seed) // karate chi=0.5 seeds sorted
	assert.Equal(t, uint32(17), available[2].Seed)
	assert.Equal(t, 1.5, available[3].Chi)
}
