// Command reneel runs the external reneel executable one or more times over
// formatted edgelists, cycling seeds and chi values, and collects the
// partition outputs. Exactly one of -seeds or -random is required.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kuninlab/reneelutil/pkg/reneel"
)

// floatList is a comma-separated list of float flag values
type floatList []float64

func (f *floatList) String() string {
	parts := make([]string, len(*f))
	for i, v := range *f {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (f *floatList) Set(value string) error {
	*f = (*f)[:0]
	for _, part := range strings.Split(value, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return err
		}
		*f = append(*f, v)
	}
	return nil
}

// seedList is a comma-separated list of uint32 flag values
type seedList []uint32

func (s *seedList) String() string {
	parts := make([]string, len(*s))
	for i, v := range *s {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	return strings.Join(parts, ",")
}

func (s *seedList) Set(value string) error {
	*s = (*s)[:0]
	for _, part := range strings.Split(value, ",") {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return err
		}
		*s = append(*s, uint32(v))
	}
	return nil
}

func main() {
	chis := floatList{0.0}
	seeds := seedList{}
	flag.Var(&chis, "chi", "comma-separated chi value(s) to run")
	flag.Var(&seeds, "seeds", "comma-separated seed(s), cycled across runs; cannot be used with -random")
	random := flag.Bool("random", false, "generate a fresh random seed per run; cannot be used with -seeds")
	outputDir := flag.String("o", ".", "directory for collected partition files")
	nruns := flag.Int("n", 1, "number of runs per (chi, file) combination")
	nproc := flag.Int("p", 0, "number of processors (0 means all)")
	executable := flag.String("x", "", "path to the reneel executable")
	keepResults := flag.Bool("k", false, "also keep the results_ file of each run")
	rgSize := flag.Int("e", 0, "ensemble size for the randomized greedy portion")
	reneelSize := flag.Int("f", 0, "ensemble size for the reneel iteration")
	rgParameter := flag.Int("g", 0, "parameter for the randomized greedy algorithm")
	runLog := flag.String("l", "", "run log path (JSON lines, one record per run)")
	configFile := flag.String("config", "", "optional config file (viper format)")
	verbose := flag.String("verbose", "", "log level: debug, info, warn, error")
	testMode := flag.Bool("t", false, "replace the executable with echo and fabricate outputs")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: reneel [flags] formatted-edgelist [formatted-edgelist ...]")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if (len(seeds) > 0) == *random {
		fmt.Fprintln(os.Stderr, "exactly one of -seeds or -random is required")
		os.Exit(1)
	}

	cfg := reneel.NewConfig()
	if *configFile != "" {
		if err := cfg.LoadFromFile(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", *configFile, err)
			os.Exit(1)
		}
	}
	if *executable != "" {
		cfg.Set("runner.executable", *executable)
	}
	cfg.Set("runner.output_dir", *outputDir)
	if *nproc > 0 {
		cfg.Set("runner.nproc", *nproc)
	}
	if *keepResults {
		cfg.Set("runner.keep_results", true)
	}
	if *testMode {
		cfg.Set("runner.test_mode", true)
	}
	if *rgSize > 0 {
		cfg.Set("ensemble.rg_size", *rgSize)
	}
	if *reneelSize > 0 {
		cfg.Set("ensemble.reneel_size", *reneelSize)
	}
	if *rgParameter > 0 {
		cfg.Set("ensemble.rg_parameter", *rgParameter)
	}
	if *runLog != "" {
		cfg.Set("logging.run_log", *runLog)
	}
	if *verbose != "" {
		cfg.Set("logging.level", *verbose)
	}

	logger := cfg.CreateLogger()
	runner := reneel.NewRunner(cfg, logger)

	var source *reneel.SeedSource
	if *random {
		source = reneel.RandomSeeds()
	} else {
		source = reneel.FixedSeeds(seeds)
	}

	opts := reneel.SweepOptions{
		Files:              flag.Args(),
		Chis:               chis,
		NRuns:              *nruns,
		Seeds:              source,
		RGEnsembleSize:     cfg.RGEnsembleSize(),
		ReneelEnsembleSize: cfg.ReneelEnsembleSize(),
		RGParameter:        cfg.RGParameter(),
		RunLogPath:         cfg.RunLogPath(),
	}
	if err := runner.Sweep(context.Background(), opts); err != nil {
		logger.Fatal().Err(err).Msg("Sweep failed")
	}
}
