// Package analyzer defines the contract shared by file-scoped analyses.
package analyzer

import "context"

// FileAnalyzer runs an analysis over a set of target files and yields
// a typed result.
type FileAnalyzer[T any] interface {
	// Analyze processes the targets and returns the result. Cancelling
	// the context stops in-flight work.
	Analyze(ctx context.Context, files []string) (T, error)

	// Close releases any resources held by the analyzer.
	Close()
}
