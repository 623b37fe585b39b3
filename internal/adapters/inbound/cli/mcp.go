package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/openkraft/layerlint/internal/adapters/inbound/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the layerlint MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start layerlint MCP server (stdio)",
		Long:  "Start the layerlint MCP server using stdio transport. Coding assistants can analyze the project, a single file, or list duplicate literals.",
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath([]string{projectPath})
			if err != nil {
				return err
			}
			s := mcpadapter.NewServer(absPath, newAnalyzeService())
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", ".", "Project path (defaults to current working directory)")

	return cmd
}
