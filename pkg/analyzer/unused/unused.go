// Package unused finds Solidity functions that nothing in the project
// references. Detection is lexical: declarations come from a scan of
// the raw source, references are identifier-boundary occurrences of
// the name anywhere under the root, and a function with zero such
// occurrences outside its own signature is unused.
package unused

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/okalenik/solvac/internal/fileproc"
	"github.com/okalenik/solvac/pkg/analyzer"
	"github.com/okalenik/solvac/pkg/solidity"
	"github.com/zeebo/blake3"
	"gonum.org/v1/gonum/stat"
)

// Analyzer runs unused-function analysis against a fixed root.
type Analyzer struct {
	root        string
	ignore      *IgnoreSet
	workers     int
	maxFileSize int64
	onProgress  fileproc.ProgressFunc
	onSnapshot  func()
}

var _ analyzer.FileAnalyzer[*Analysis] = (*Analyzer)(nil)

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer) error

// WithIgnore sets the name patterns to skip. Replaces the default
// ^test pattern.
func WithIgnore(patterns []string) Option {
	return func(a *Analyzer) error {
		set, err := CompileIgnores(patterns)
		if err != nil {
			return err
		}
		a.ignore = set
		return nil
	}
}

// WithWorkers sets target-file parallelism (0 = 2x NumCPU).
func WithWorkers(n int) Option {
	return func(a *Analyzer) error {
		a.workers = n
		return nil
	}
}

// WithMaxFileSize skips target files larger than maxSize bytes
// (0 = no limit). The file still participates as a reference source.
func WithMaxFileSize(maxSize int64) Option {
	return func(a *Analyzer) error {
		a.maxFileSize = maxSize
		return nil
	}
}

// WithProgress sets a callback invoked after each target file.
func WithProgress(fn fileproc.ProgressFunc) Option {
	return func(a *Analyzer) error {
		a.onProgress = fn
		return nil
	}
}

// WithSnapshotProgress sets a callback invoked per file while the
// reference snapshot loads. The total is not known up front.
func WithSnapshotProgress(fn func()) Option {
	return func(a *Analyzer) error {
		a.onSnapshot = fn
		return nil
	}
}

// New creates an analyzer for the given root. Pattern compilation
// failures surface here, before any file is read.
func New(root string, opts ...Option) (*Analyzer, error) {
	a := &Analyzer{root: root}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	if a.ignore == nil {
		set, err := CompileIgnores(DefaultIgnore)
		if err != nil {
			return nil, err
		}
		a.ignore = set
	}
	return a, nil
}

// Analyze scans targets against a fresh snapshot of the root. Per-file
// failures (malformed source, unreadable file) are collected into
// Analysis.Errors; the run continues. Root and pattern problems are
// returned as errors and nothing is analyzed.
func (a *Analyzer) Analyze(ctx context.Context, targets []string) (*Analysis, error) {
	snap, err := loadSnapshot(a.root, a.onSnapshot)
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{
		Root:        a.root,
		GeneratedAt: time.Now().UTC(),
	}

	reports, errs := fileproc.Map(ctx, targets, a.workers, func(path string) (*FileReport, error) {
		return a.analyzeFile(snap, path)
	}, a.onProgress)

	for _, r := range reports {
		if r != nil {
			analysis.Files = append(analysis.Files, *r)
		}
	}
	if errs != nil {
		for _, pe := range errs.Errors {
			analysis.Errors = append(analysis.Errors, FileError{File: pe.Path, Message: pe.Err.Error()})
		}
	}

	a.summarize(analysis, len(targets))
	return analysis, nil
}

// Close implements analyzer.FileAnalyzer. The analyzer holds no
// resources; snapshots are per-call.
func (a *Analyzer) Close() {}

// analyzeFile classifies every declaration in one target file against
// the snapshot.
func (a *Analyzer) analyzeFile(snap *projectSnapshot, path string) (*FileReport, error) {
	sf := snap.lookup(path)
	if sf == nil {
		// Target outside the snapshot (or unreadable at load time).
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		sf = newSnapshotFile(path, data)
	}

	if a.maxFileSize > 0 && int64(len(sf.content)) > a.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (limit: %d)", len(sf.content), a.maxFileSize)
	}

	decls, err := solidity.ExtractFunctionsMasked(path, sf.content, sf.mask)
	if err != nil {
		return nil, err
	}

	report := &FileReport{File: path, Checksum: sf.sum}
	for _, d := range decls {
		if a.ignore.Match(d.Name) {
			report.Functions = append(report.Functions, FunctionStat{
				Name:       d.Name,
				Line:       d.Line,
				Visibility: d.Visibility,
				Ignored:    true,
			})
			continue
		}

		refs := snap.countReferences(d.Name, sf.path, d.SignatureRange)
		report.Functions = append(report.Functions, FunctionStat{
			Name:       d.Name,
			Line:       d.Line,
			Visibility: d.Visibility,
			References: refs,
		})
		if refs == 0 {
			report.Findings = append(report.Findings, Finding{
				Name:        d.Name,
				File:        path,
				Line:        d.Line,
				Visibility:  d.Visibility,
				Override:    d.Override,
				References:  0,
				Start:       d.FullRange.Start,
				End:         d.FullRange.End,
				Fingerprint: fingerprint(path, d),
			})
		}
	}
	return report, nil
}

// summarize fills Analysis.Summary from per-file results.
func (a *Analyzer) summarize(analysis *Analysis, targetCount int) {
	s := &analysis.Summary
	s.TotalFiles = targetCount
	s.FailedFiles = len(analysis.Errors)

	var refCounts []float64
	for _, f := range analysis.Files {
		for _, fn := range f.Functions {
			s.TotalFunctions++
			if fn.Ignored {
				s.IgnoredFunctions++
				continue
			}
			refCounts = append(refCounts, float64(fn.References))
		}
		s.UnusedFunctions += len(f.Findings)
	}

	if len(refCounts) > 0 {
		s.MeanReferences = stat.Mean(refCounts, nil)
		sort.Float64s(refCounts)
		s.MedianReferences = stat.Quantile(0.5, stat.Empirical, refCounts, nil)
	}
}

// fingerprint derives a stable short identity for a finding.
func fingerprint(path string, d solidity.FunctionDeclaration) string {
	h := blake3.Sum256([]byte(path + ":" + d.Name + ":" + strconv.Itoa(d.SignatureRange.Start)))
	return hex.EncodeToString(h[:8])
}
