// Package mcpserver exposes vacuum analysis as Model Context Protocol
// tools so coding agents can find and remove unused Solidity functions
// without shelling out.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers the solvac tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates a new MCP server with all solvac tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "solvac",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds the vacuum tools to the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "vacuum_scan",
		Description: "Scan Solidity sources for functions that nothing in the project references. " +
			"Reports each unused function with its file, line, visibility, and the exact byte range " +
			"a deletion would remove. Read-only; no files are modified.",
	}, handleVacuumScan)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "vacuum_delete",
		Description: "Scan Solidity sources for unused functions and delete them in place, including " +
			"their NatSpec comment blocks. Files that changed on disk since the scan are left " +
			"untouched and reported.",
	}, handleVacuumDelete)
}
