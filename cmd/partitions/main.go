// Command partitions works with collected clustering outputs: it lists the
// runs available in a directory, or merges a selection of them into one CSV
// table indexed by original node id, optionally with a pairwise agreement
// matrix on stderr.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/kuninlab/reneelutil/pkg/partition"
)

func main() {
	clusteringDir := flag.String("clustering", ".", "directory holding partition_ files")
	preprocessedDir := flag.String("preprocessed", ".", "directory holding key_ files")
	selectionFile := flag.String("selection", "", "selection JSON file; when given, merge the selected runs")
	ext := flag.String("ext", "txt", "extension of key files")
	indexName := flag.String("index", partition.DefaultIndexName, "name of the node id column")
	output := flag.String("o", "", "write the merged CSV here instead of stdout")
	agreement := flag.Bool("agreement", false, "print the pairwise adjusted Rand index matrix to stderr")
	verbose := flag.String("verbose", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	level, err := zerolog.ParseLevel(*verbose)
	if err != nil {
		level = zerolog.WarnLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "partitions").Logger()

	if *selectionFile == "" {
		listAvailable(*clusteringDir, logger)
		return
	}

	sel, err := partition.LoadSelectionFile(*selectionFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load selection")
	}

	table, err := partition.LoadSelection(sel, *preprocessedDir, *clusteringDir, *ext, *indexName, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load selected partitions")
	}

	out := os.Stdout
	if *output != "" {
		out, err = os.Create(*output)
		if err != nil {
			logger.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer out.Close()
	}
	if err := table.WriteCSV(out); err != nil {
		logger.Fatal().Err(err).Msg("Failed to write merged table")
	}

	if *agreement {
		m, err := partition.Agreement(table)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to compute agreement matrix")
		}
		for _, col := range table.Columns {
			fmt.Fprintf(os.Stderr, "%s ", col.Label)
		}
		fmt.Fprintf(os.Stderr, "\n%v\n", mat.Formatted(m, mat.Prefix(""), mat.Squeeze()))
	}
}

func listAvailable(dir string, logger zerolog.Logger) {
	available, err := partition.Available(dir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", dir).Msg("Failed to scan for partitions")
	}
	fmt.Printf("%-20s %-8s %-12s %-10s %s\n", "name", "chi", "seed", "id", "file")
	for _, fi := range available {
		fmt.Printf("%-20s %-8g %-12d %-10s %s\n", fi.Name, fi.Chi, fi.Seed, fi.TmpID, fi.Path)
	}
}
