package main

import (
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/trainload/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the trainload MCP tools over stdio",
	Long: `Run an MCP server on stdin/stdout backed by the trainload REST API.

Configure it in an MCP client as:

  {"command": "trainload-cli", "args": ["mcp"],
   "env": {"TRAINLOAD_SERVER_URL": "https://trainload.example.ts.net"}}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Info("mcp stdio server starting", "server", serverURL)
		return mcpserver.ServeStdio(mcp.New(api, Version, log))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
