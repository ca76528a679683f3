package main

import (
	"context"

	"github.com/okalenik/solvac/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes solvac's scan
and delete operations as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "solvac": {
        "command": "solvac",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - vacuum_scan    List functions with zero references (read-only)
  - vacuum_delete  Delete unused functions in place

Available prompts:
  - contract_cleanup  Guided procedure for safe removal`,
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	server := mcpserver.NewServer(version)
	return server.Run(context.Background())
}
