package unused

import (
	"time"

	"github.com/okalenik/solvac/pkg/solidity"
)

// FunctionStat records one analyzed declaration and its project-wide
// reference count. Ignored declarations are kept for reporting but are
// never classified as unused.
type FunctionStat struct {
	Name       string              `json:"name" toon:"name"`
	Line       int                 `json:"line" toon:"line"`
	Visibility solidity.Visibility `json:"visibility,omitempty" toon:"visibility,omitempty"`
	References int                 `json:"references" toon:"references"`
	Ignored    bool                `json:"ignored,omitempty" toon:"ignored,omitempty"`
}

// Finding is a function with zero references outside its own
// signature. Start/End delimit the bytes to remove, including any
// NatSpec block and one trailing newline.
type Finding struct {
	Name        string              `json:"name" toon:"name"`
	File        string              `json:"file" toon:"file"`
	Line        int                 `json:"line" toon:"line"`
	Visibility  solidity.Visibility `json:"visibility,omitempty" toon:"visibility,omitempty"`
	Override    bool                `json:"override,omitempty" toon:"override,omitempty"`
	References  int                 `json:"references" toon:"references"`
	Start       int                 `json:"start" toon:"start"`
	End         int                 `json:"end" toon:"end"`
	Fingerprint string              `json:"fingerprint" toon:"fingerprint"`
}

// FileReport holds the per-file outcome of a run.
type FileReport struct {
	File      string         `json:"file" toon:"file"`
	Checksum  uint64         `json:"checksum" toon:"checksum"`
	Functions []FunctionStat `json:"functions,omitempty" toon:"functions,omitempty"`
	Findings  []Finding      `json:"findings,omitempty" toon:"findings,omitempty"`
}

// FileError records a target file that could not be analyzed. The rest
// of the run is unaffected.
type FileError struct {
	File    string `json:"file" toon:"file"`
	Message string `json:"message" toon:"message"`
}

// Summary aggregates a run.
type Summary struct {
	TotalFiles       int     `json:"total_files" toon:"total_files"`
	FailedFiles      int     `json:"failed_files" toon:"failed_files"`
	TotalFunctions   int     `json:"total_functions" toon:"total_functions"`
	IgnoredFunctions int     `json:"ignored_functions" toon:"ignored_functions"`
	UnusedFunctions  int     `json:"unused_functions" toon:"unused_functions"`
	MeanReferences   float64 `json:"mean_references" toon:"mean_references"`
	MedianReferences float64 `json:"median_references" toon:"median_references"`
}

// Analysis is the full result of one vacuum run.
type Analysis struct {
	Root        string       `json:"root" toon:"root"`
	GeneratedAt time.Time    `json:"generated_at" toon:"generated_at"`
	Files       []FileReport `json:"files" toon:"files"`
	Errors      []FileError  `json:"errors,omitempty" toon:"errors,omitempty"`
	Summary     Summary      `json:"summary" toon:"summary"`
}

// Partial reports whether any target file failed.
func (a *Analysis) Partial() bool {
	return len(a.Errors) > 0
}

// TotalFindings returns the number of unused functions across all files.
func (a *Analysis) TotalFindings() int {
	n := 0
	for _, f := range a.Files {
		n += len(f.Findings)
	}
	return n
}
