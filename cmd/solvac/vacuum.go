package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/okalenik/solvac/internal/output"
	"github.com/okalenik/solvac/internal/progress"
	"github.com/okalenik/solvac/internal/scanner"
	"github.com/okalenik/solvac/pkg/analyzer"
	"github.com/okalenik/solvac/pkg/analyzer/unused"
	"github.com/okalenik/solvac/pkg/config"
	"github.com/okalenik/solvac/pkg/rewrite"
	"github.com/urfave/cli/v2"
)

func vacuumCmd() *cli.Command {
	return &cli.Command{
		Name:      "vacuum",
		Aliases:   []string{"vac"},
		Usage:     "Find (and optionally delete) functions nothing references",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "root",
				Usage: "Project root for reference scanning (defaults to config, then .)",
			},
			&cli.BoolFlag{
				Name:  "delete",
				Usage: "Delete unused functions in place",
			},
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "Regexp for function names to skip (repeatable, default ^test)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Scan parallelism (0 = 2x CPU count)",
			},
		},
		Action: runVacuumCmd,
	}
}

func runVacuumCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	root := cfg.Vacuum.Root
	if c.IsSet("root") {
		root = c.String("root")
	}
	if root == "" {
		root = "."
	}

	ignore := cfg.Vacuum.Ignore
	if c.IsSet("ignore") {
		ignore = c.StringSlice("ignore")
	}

	workers := cfg.Vacuum.Workers
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	targets, err := expandTargets(getPaths(c), cfg, formatter)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		color.Yellow("No Solidity files found")
		return nil
	}
	targets, skipped := scanner.FilterBySize(targets, cfg.Vacuum.MaxFileSize)
	if skipped > 0 {
		formatter.Warning("Skipped %d file(s) over the size limit", skipped)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The snapshot load has no known total (it covers the whole root,
	// not just the targets), so it gets a spinner; the target scan that
	// follows gets a counted bar.
	spinner := progress.NewSpinner("Reading project sources...")
	tracker := progress.NewTracker("Scanning for unused functions...", len(targets))
	var loaded sync.Once
	a, err := unused.New(root,
		unused.WithIgnore(ignore),
		unused.WithWorkers(workers),
		unused.WithMaxFileSize(cfg.Vacuum.MaxFileSize),
		unused.WithSnapshotProgress(spinner.Tick),
		unused.WithProgress(func() {
			loaded.Do(spinner.FinishSuccess)
			tracker.Tick()
		}),
	)
	if err != nil {
		return err
	}

	var vac analyzer.FileAnalyzer[*unused.Analysis] = a
	defer vac.Close()

	analysis, err := vac.Analyze(ctx, targets)
	loaded.Do(spinner.FinishSuccess)
	if err != nil {
		tracker.FinishError(err)
		return err
	}
	tracker.FinishSuccess()

	failures := 0
	if c.Bool("delete") {
		failures = deleteFindings(analysis, formatter)
	}

	if formatter.Structured() {
		if err := formatter.Output(analysis); err != nil {
			return err
		}
	} else if err := renderAnalysis(analysis, formatter, verboseEnabled(c, cfg)); err != nil {
		return err
	}

	if analysis.Partial() || failures > 0 {
		return cli.Exit("completed with errors", 1)
	}
	return nil
}

// expandTargets turns positional paths into the list of Solidity files
// to analyze. Explicit non-Solidity files draw a warning and are
// skipped; directories are scanned recursively.
func expandTargets(paths []string, cfg *config.Config, formatter *output.Formatter) ([]string, error) {
	scan := scanner.New(cfg)

	var targets []string
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", path, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", path, err)
		}

		if info.IsDir() {
			found, err := scan.ScanDir(abs)
			if err != nil {
				return nil, fmt.Errorf("scanning %s: %w", path, err)
			}
			targets = append(targets, found...)
			continue
		}

		if !scanner.IsSolidity(abs) {
			formatter.Warning("%s does not look like a Solidity file, skipping", path)
			continue
		}
		ok, err := scan.ScanFile(abs)
		if err != nil {
			return nil, err
		}
		if ok {
			targets = append(targets, abs)
		}
	}
	return targets, nil
}

// renderAnalysis prints the human-readable report.
func renderAnalysis(analysis *unused.Analysis, formatter *output.Formatter, verbose bool) error {
	if verbose {
		for _, file := range analysis.Files {
			formatter.Info("%s", file.File)
			for _, fn := range file.Functions {
				tag := ""
				if fn.Ignored {
					tag = " (ignored)"
				}
				fmt.Fprintf(formatter.Writer(), "  %s: %d reference(s)%s\n", fn.Name, fn.References, tag)
			}
			if len(file.Findings) == 0 {
				fmt.Fprintln(formatter.Writer(), "  no unused functions")
			}
		}
		fmt.Fprintln(formatter.Writer())
	}

	var rows [][]string
	for _, file := range analysis.Files {
		for _, f := range file.Findings {
			visibility := string(f.Visibility)
			if visibility == "" {
				visibility = "-"
			}
			if f.Override {
				visibility += " override"
			}
			rows = append(rows, []string{
				fmt.Sprintf("%s:%d", f.File, f.Line),
				f.Name,
				visibility,
				f.Fingerprint,
			})
		}
	}
	if len(rows) > 0 {
		table := output.NewTable(
			"Unused Functions",
			[]string{"Location", "Function", "Visibility", "Fingerprint"},
			rows,
			nil,
			nil,
		)
		if err := formatter.Output(table); err != nil {
			return err
		}
	}

	for _, fe := range analysis.Errors {
		formatter.Error("%s: %s", fe.File, fe.Message)
	}

	s := analysis.Summary
	fmt.Fprintf(formatter.Writer(),
		"Summary: %d unused of %d functions across %d files (%d ignored, %d failed)\n",
		s.UnusedFunctions, s.TotalFunctions, s.TotalFiles, s.IgnoredFunctions, s.FailedFiles)
	if s.TotalFunctions > s.IgnoredFunctions {
		fmt.Fprintf(formatter.Writer(),
			"References per function: mean %.2f, median %s\n",
			s.MeanReferences, strconv.FormatFloat(s.MedianReferences, 'f', -1, 64))
	}
	return nil
}

// deleteFindings excises every finding, one file at a time, against
// the analyzed snapshot. Returns the number of files that failed.
func deleteFindings(analysis *unused.Analysis, formatter *output.Formatter) int {
	failures := 0
	for _, file := range analysis.Files {
		if len(file.Findings) == 0 {
			continue
		}
		ranges := make([]rewrite.Range, 0, len(file.Findings))
		for _, f := range file.Findings {
			ranges = append(ranges, rewrite.Range{Start: f.Start, End: f.End})
		}
		if err := rewrite.Apply(file.File, ranges, file.Checksum); err != nil {
			formatter.Error("%s: %v", file.File, err)
			failures++
			continue
		}
		for _, f := range file.Findings {
			formatter.Success("Removed function: %s", f.Name)
		}
		formatter.Success("Updated %s", file.File)
	}
	return failures
}
