package reneel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Runner invokes the external reneel executable, staging each run in an
// isolated scratch directory and collecting the partition output back into
// the output directory. Execution is strictly sequential: one blocking
// subprocess per run.
type Runner struct {
	ExecutablePath string
	OutputDir      string
	ScratchDir     string // base directory for per-run scratch dirs
	NumCPU         int
	KeepResults    bool
	TestMode       bool // replace the executable with echo and fabricate outputs

	logger zerolog.Logger
}

// NewRunner builds a runner from config
func NewRunner(cfg *Config, logger zerolog.Logger) *Runner {
	return &Runner{
		ExecutablePath: cfg.ExecutablePath(),
		OutputDir:      cfg.OutputDir(),
		ScratchDir:     cfg.ScratchDir(),
		NumCPU:         cfg.NumCPU(),
		KeepResults:    cfg.KeepResults(),
		TestMode:       cfg.TestMode(),
		logger:         logger,
	}
}

// Execute stages the run's input files into a fresh scratch directory,
// invokes the executable with its positional arguments, and copies the
// partition (and optionally results) file to the output directory with a
// seed-chi-scratch-id suffix. A non-zero exit code is logged but not fatal;
// output collection is still attempted.
func (r *Runner) Execute(ctx context.Context, run *Run) error {
	ncpu := r.NumCPU
	if ncpu < 1 {
		ncpu = 1
	}
	rgPerCPU := r.perCPU(run.RGEnsembleSize, ncpu, "rg ensemble")
	reneelPerCPU := r.perCPU(run.ReneelEnsembleSize, ncpu, "reneel ensemble")

	outputDir, err := filepath.Abs(r.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory %s: %w", r.OutputDir, err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}
	executable, err := filepath.Abs(r.ExecutablePath)
	if err != nil {
		return fmt.Errorf("failed to resolve executable path %s: %w", r.ExecutablePath, err)
	}

	scratchBase := r.ScratchDir
	if scratchBase == "" {
		scratchBase = "."
	}
	scratch, err := os.MkdirTemp(scratchBase, "reneel-")
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)
	scratchID := strings.TrimPrefix(filepath.Base(scratch), "reneel-")
	r.logger.Debug().Str("scratch", scratch).Msg("Created scratch directory")

	if err := copyFile(run.EdgelistFile, filepath.Join(scratch, filepath.Base(run.EdgelistFile))); err != nil {
		return err
	}
	for _, file := range run.AssociatedFiles {
		if err := copyFile(file, filepath.Join(scratch, filepath.Base(file))); err != nil {
			return err
		}
	}

	inputName := filepath.Base(run.EdgelistFile)
	partitionName := "partition_" + inputName
	resultsName := "results_" + inputName
	suffix := fmt.Sprintf("_%d-%s-%s", run.Seed, formatChi(run.Chi), scratchID)

	args := []string{
		strconv.Itoa(run.RGParameter),
		strconv.Itoa(rgPerCPU),
		strconv.Itoa(reneelPerCPU),
		strconv.FormatUint(uint64(run.Seed), 10),
		formatChi(run.Chi),
		inputName,
	}

	var cmd *exec.Cmd
	if r.TestMode {
		if err := writeTestOutputs(scratch, partitionName, resultsName, run); err != nil {
			return err
		}
		cmd = exec.CommandContext(ctx, "echo", append([]string{executable}, args...)...)
	} else {
		cmd = exec.CommandContext(ctx, executable, args...)
	}
	cmd.Dir = scratch
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	r.logger.Debug().
		Str("dir", scratch).
		Str("cmd", strings.Join(append([]string{executable}, args...), " ")).
		Msg("Invoking reneel")

	start := time.Now()
	runErr := cmd.Run()
	run.WallTimeSeconds = time.Since(start).Seconds()

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			run.ExitCode = exitErr.ExitCode()
			r.logger.Warn().
				Int("exit_code", run.ExitCode).
				Str("run_id", run.ID).
				Msg("Process returned error code")
		} else {
			return fmt.Errorf("failed to run %s: %w", executable, runErr)
		}
	}

	outputPartition := filepath.Join(outputDir, suffixedName(partitionName, suffix))
	r.logger.Debug().Str("from", partitionName).Str("to", outputPartition).Msg("Copying partition file")
	if err := copyFile(filepath.Join(scratch, partitionName), outputPartition); err != nil {
		return fmt.Errorf("failed to collect partition output: %w", err)
	}
	run.PartitionFile = outputPartition

	if r.KeepResults {
		outputResults := filepath.Join(outputDir, suffixedName(resultsName, suffix))
		r.logger.Debug().Str("from", resultsName).Str("to", outputResults).Msg("Copying results file")
		if err := copyFile(filepath.Join(scratch, resultsName), outputResults); err != nil {
			return fmt.Errorf("failed to collect results output: %w", err)
		}
		run.ResultsFile = outputResults
	}

	return nil
}

// perCPU splits an ensemble size evenly across processors. Uneven division
// is tolerated with a warning; the effective total is the floor.
func (r *Runner) perCPU(size, ncpu int, label string) int {
	per := size / ncpu
	if per < 1 {
		per = 1
	}
	if per*ncpu != size {
		r.logger.Warn().
			Str("ensemble", label).
			Int("requested", size).
			Int("effective", per*ncpu).
			Int("ncpu", ncpu).
			Msg("Ensemble size not divisible by processor count")
	}
	return per
}

func writeTestOutputs(dir, partitionName, resultsName string, run *Run) error {
	line := fmt.Sprintf("Testing %d %s\n", run.Seed, formatChi(run.Chi))
	if err := os.WriteFile(filepath.Join(dir, partitionName), []byte(line), 0644); err != nil {
		return fmt.Errorf("failed to write test partition: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, resultsName), []byte(line), 0644); err != nil {
		return fmt.Errorf("failed to write test results: %w", err)
	}
	return nil
}

// formatChi renders a chi value for filenames and executable arguments
func formatChi(chi float64) string {
	return strconv.FormatFloat(chi, 'g', -1, 64)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

// SweepOptions describes a batch of runs: the product of every chi value,
// input file and run number, zipped with seeds from the seed source.
type SweepOptions struct {
	Files              []string
	Chis               []float64
	NRuns              int
	Seeds              *SeedSource
	RGEnsembleSize     int
	ReneelEnsembleSize int
	RGParameter        int
	RunLogPath         string // append one JSON record per run; empty disables
}

// runRecord is one line of the run log
type runRecord struct {
	Timestamp time.Time `json:"timestamp"`
	TestMode  bool      `json:"test_mode"`
	Run       *Run      `json:"run"`
}

// Sweep executes one run per (chi, file, run-number) combination, waiting
// for each subprocess before starting the next.
func (r *Runner) Sweep(ctx context.Context, opts SweepOptions) error {
	nruns := opts.NRuns
	if nruns < 1 {
		nruns = 1
	}

	var runLog *os.File
	if opts.RunLogPath != "" {
		var err error
		runLog, err = os.OpenFile(opts.RunLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open run log %s: %w", opts.RunLogPath, err)
		}
		defer runLog.Close()
	}

	for _, chi := range opts.Chis {
		for _, file := range opts.Files {
			for i := 0; i < nruns; i++ {
				seed := opts.Seeds.Next()
				r.logger.Info().
					Float64("chi", chi).
					Str("file", file).
					Int("run", i).
					Uint32("seed", seed).
					Msg("Starting iteration")

				run, err := NewRun(file, seed, chi, opts.RGEnsembleSize, opts.ReneelEnsembleSize, opts.RGParameter)
				if err != nil {
					return err
				}
				if err := r.Execute(ctx, run); err != nil {
					return err
				}

				if runLog != nil {
					record := runRecord{Timestamp: time.Now(), TestMode: r.TestMode, Run: run}
					if err := json.NewEncoder(runLog).Encode(record); err != nil {
						return fmt.Errorf("failed to append run log: %w", err)
					}
				}
			}
		}
	}
	return nil
}
