// Package partition locates, loads and merges the partition outputs written
// by reneel runs. Output files follow the naming convention
// [type]_[dataset-name]_[seed]-[chi]-[tmp-id].[ext].
package partition

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kuninlab/reneelutil/pkg/edgelist"
)

// DefaultIndexName labels the node id column of loaded tables
const DefaultIndexName = "bodyId"

// FileInfo is a parsed output filename
type FileInfo struct {
	Path         string
	Type         string // "partition", "results", "key", ...
	Name         string // dataset name
	Seed         uint32
	Chi          float64
	TmpID        string
	HasRunSuffix bool
}

// ParseFileName splits a filename stem on `_` at most twice, and the third
// part (when present) on `-` at most twice, yielding the file type, dataset
// name and seed-chi-id run suffix.
func ParseFileName(path string) (FileInfo, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.SplitN(stem, "_", 3)
	if len(parts) < 2 {
		return FileInfo{}, fmt.Errorf("filename %s does not follow the type_name convention", path)
	}

	fi := FileInfo{Path: path, Type: parts[0], Name: parts[1]}
	if len(parts) == 3 {
		sub := strings.SplitN(parts[2], "-", 3)
		if len(sub) != 3 {
			return FileInfo{}, fmt.Errorf("filename %s: run suffix %q is not seed-chi-id", path, parts[2])
		}
		seed, err := strconv.ParseUint(sub[0], 10, 32)
		if err != nil {
			return FileInfo{}, fmt.Errorf("filename %s: invalid seed %q: %w", path, sub[0], err)
		}
		chi, err := strconv.ParseFloat(sub[1], 64)
		if err != nil {
			return FileInfo{}, fmt.Errorf("filename %s: invalid chi %q: %w", path, sub[1], err)
		}
		fi.Seed = uint32(seed)
		fi.Chi = chi
		fi.TmpID = sub[2]
		fi.HasRunSuffix = true
	}
	return fi, nil
}

// Load reads a key/partition file pair into a single-column table indexed by
// original node id. The column is keyed by chi, or by chi and seed when
// includeSeed is set (for merging several seeds of the same chi).
func Load(keyFile, partitionFile string, includeSeed bool, indexName string) (*Table, error) {
	keyInfo, err := ParseFileName(keyFile)
	if err != nil {
		return nil, err
	}
	partInfo, err := ParseFileName(partitionFile)
	if err != nil {
		return nil, err
	}

	if keyInfo.Type != "key" {
		return nil, fmt.Errorf("key file %s does not appear to be a key", keyFile)
	}
	if partInfo.Type != "partition" {
		return nil, fmt.Errorf("partition file %s does not appear to be a partition file", partitionFile)
	}
	if !partInfo.HasRunSuffix {
		return nil, fmt.Errorf("partition file %s has no seed-chi-id suffix", partitionFile)
	}
	if keyInfo.Name != partInfo.Name {
		return nil, fmt.Errorf("key name %q does not match partition name %q", keyInfo.Name, partInfo.Name)
	}

	unmapper, err := edgelist.ReadKey(keyFile)
	if err != nil {
		return nil, err
	}
	clusters, err := readClusters(partitionFile)
	if err != nil {
		return nil, err
	}
	if len(clusters) != len(unmapper) {
		return nil, fmt.Errorf("partition %s has %d entries but key %s maps %d nodes",
			partitionFile, len(clusters), keyFile, len(unmapper))
	}

	if indexName == "" {
		indexName = DefaultIndexName
	}
	table := NewTable(indexName)
	column := Column{
		Dataset: partInfo.Name,
		Chi:     partInfo.Chi,
		Seed:    partInfo.Seed,
		HasSeed: includeSeed,
	}
	column.Label = column.defaultLabel()

	// dense ids are 1..N; line i of the partition is the cluster of node i
	values := make([]int, len(clusters))
	for i, cluster := range clusters {
		node, ok := unmapper[i+1]
		if !ok {
			return nil, fmt.Errorf("key %s has no entry for dense id %d", keyFile, i+1)
		}
		table.index = append(table.index, node)
		table.pos[node] = i
		values[i] = cluster
	}
	column.values = values
	table.Columns = append(table.Columns, column)
	return table, nil
}

func readClusters(path string) ([]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open partition file %s: %w", path, err)
	}
	defer file.Close()

	var clusters []int
	scanner := bufio.NewScanner(file)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cluster, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("partition file %s: line %d: invalid cluster id %q: %w",
				path, lineno, line, err)
		}
		clusters = append(clusters, cluster)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read partition file %s: %w", path, err)
	}
	return clusters, nil
}

// Available scans a directory for partition files whose names parse under
// the run naming convention, sorted by dataset name then chi then seed.
// Files that do not parse are skipped.
func Available(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	var available []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "partition") {
			continue
		}
		fi, err := ParseFileName(filepath.Join(dir, entry.Name()))
		if err != nil || !fi.HasRunSuffix {
			continue
		}
		available = append(available, fi)
	}

	sort.Slice(available, func(i, j int) bool {
		if available[i].Name != available[j].Name {
			return available[i].Name < available[j].Name
		}
		if available[i].Chi != available[j].Chi {
			return available[i].Chi < available[j].Chi
		}
		return available[i].Seed < available[j].Seed
	})
	return available, nil
}
