package mcpserver

import (
	"context"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/okalenik/solvac/internal/scanner"
	"github.com/okalenik/solvac/pkg/analyzer/unused"
	"github.com/okalenik/solvac/pkg/config"
	"github.com/okalenik/solvac/pkg/rewrite"
	toon "github.com/toon-format/toon-go"
)

// VacuumInput is the input for the vacuum tools.
type VacuumInput struct {
	Paths  []string `json:"paths,omitempty" jsonschema:"Files or directories to analyze. Defaults to the root if empty."`
	Root   string   `json:"root,omitempty" jsonschema:"Project root for reference scanning. Defaults to the current directory."`
	Ignore []string `json:"ignore,omitempty" jsonschema:"Regular expressions for function names to skip. Defaults to ^test."`
}

// deleteReport is the vacuum_delete result payload.
type deleteReport struct {
	Analysis *unused.Analysis `json:"analysis" toon:"analysis"`
	Removed  []string         `json:"removed,omitempty" toon:"removed,omitempty"`
	Updated  []string         `json:"updated,omitempty" toon:"updated,omitempty"`
	Failed   []string         `json:"failed,omitempty" toon:"failed,omitempty"`
}

func toolResult(data any) (*mcp.CallToolResult, any, error) {
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(out)},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// runVacuum expands targets and runs analysis for both tools.
func runVacuum(ctx context.Context, input VacuumInput) (*unused.Analysis, error) {
	root := input.Root
	if root == "" {
		root = "."
	}

	cfg := config.LoadOrDefault()
	scan := scanner.New(cfg)

	paths := input.Paths
	if len(paths) == 0 {
		paths = []string{root}
	}

	var targets []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		if ok, err := scan.ScanFile(abs); err == nil && ok {
			targets = append(targets, abs)
			continue
		}
		found, err := scan.ScanDir(abs)
		if err != nil {
			return nil, err
		}
		targets = append(targets, found...)
	}

	opts := []unused.Option{}
	if len(input.Ignore) > 0 {
		opts = append(opts, unused.WithIgnore(input.Ignore))
	}
	a, err := unused.New(root, opts...)
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx, targets)
}

func handleVacuumScan(ctx context.Context, req *mcp.CallToolRequest, input VacuumInput) (*mcp.CallToolResult, any, error) {
	analysis, err := runVacuum(ctx, input)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(analysis)
}

func handleVacuumDelete(ctx context.Context, req *mcp.CallToolRequest, input VacuumInput) (*mcp.CallToolResult, any, error) {
	analysis, err := runVacuum(ctx, input)
	if err != nil {
		return toolError(err.Error())
	}

	report := &deleteReport{Analysis: analysis}
	for _, file := range analysis.Files {
		if len(file.Findings) == 0 {
			continue
		}
		ranges := make([]rewrite.Range, 0, len(file.Findings))
		for _, f := range file.Findings {
			ranges = append(ranges, rewrite.Range{Start: f.Start, End: f.End})
			report.Removed = append(report.Removed, f.Name)
		}
		if err := rewrite.Apply(file.File, ranges, file.Checksum); err != nil {
			report.Failed = append(report.Failed, file.File+": "+err.Error())
			continue
		}
		report.Updated = append(report.Updated, file.File)
	}
	return toolResult(report)
}
