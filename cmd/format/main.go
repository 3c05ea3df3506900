// Command format reformats edgelists for the reneel executable: nodes are
// renumbered 1..N, parallel (and antiparallel, unless -directed) edges are
// summed, self-loops dropped, and the clean_/key_/info_/degree_ companion
// files are written.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/kuninlab/reneelutil/pkg/edgelist"
)

func main() {
	outputDir := flag.String("o", "", "output directory (created if needed; defaults to each input's directory)")
	inPrefix := flag.String("inprefix", "", "input filenames look like [inprefix]_[name]_[insuffix].[ext]; ignored when naming outputs")
	inSuffix := flag.String("insuffix", "", "see -inprefix")
	prefix := flag.String("p", "", "output prefix (reserved prefixes are rejected)")
	suffix := flag.String("s", "", "output suffix, appended to the dataset name")
	skip := flag.Int("skip", 0, "number of header lines to skip")
	sep := flag.String("sep", "space", "field separator: space, comma or semicolon")
	directed := flag.Bool("d", false, "preserve edge direction (do not merge antiparallel edges)")
	convert := flag.String("c", "int", "node id type: int, str or float")
	wtype := flag.String("wtype", "int", "weight type: int or float")
	uCol := flag.Int("u", 0, "column of the source node")
	vCol := flag.Int("v", 1, "column of the target node")
	wCol := flag.Int("w", 2, "column of the edge weight")
	verbose := flag.String("verbose", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: format [flags] edgelist [edgelist ...]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := consoleLogger(*verbose)

	opts := edgelist.DefaultOptions()
	opts.Skip = *skip
	opts.Directed = *directed
	opts.UCol, opts.VCol, opts.WCol = *uCol, *vCol, *wCol

	switch *sep {
	case "space":
		opts.Sep = ""
	case "comma":
		opts.Sep = ","
	case "semicolon":
		opts.Sep = ";"
	default:
		logger.Fatal().Str("sep", *sep).Msg("Unknown separator")
	}

	switch *convert {
	case "int":
		opts.NodeType = edgelist.NodeInt
	case "str":
		opts.NodeType = edgelist.NodeString
	case "float":
		opts.NodeType = edgelist.NodeFloat
	default:
		logger.Fatal().Str("convert", *convert).Msg("Unknown node type")
	}

	switch *wtype {
	case "int":
		opts.WeightType = edgelist.WeightInt
	case "float":
		opts.WeightType = edgelist.WeightFloat
	default:
		logger.Fatal().Str("wtype", *wtype).Msg("Unknown weight type")
	}

	naming := edgelist.Naming{
		OutputDir: *outputDir,
		InPrefix:  *inPrefix,
		InSuffix:  *inSuffix,
		Prefix:    *prefix,
		Suffix:    *suffix,
	}

	for _, file := range flag.Args() {
		result, err := edgelist.Format(file, opts, naming, logger)
		if err != nil {
			logger.Fatal().Err(err).Str("file", file).Msg("Failed to format edgelist")
		}
		logger.Info().
			Str("name", result.Name).
			Int("nodes", result.NumNodes).
			Int("edges", result.NumEdges).
			Int("self_loops", result.SelfLoops).
			Msg("Formatted edgelist")
	}
}

func consoleLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(parsed).With().Timestamp().Str("service", "format").Logger()
}
