package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/layerlint/internal/application"
)

// NewServer creates an MCP server with every layerlint tool and resource
// registered. projectPath is the root directory of the project to analyze.
func NewServer(projectPath string, svc *application.AnalyzeService) *server.MCPServer {
	s := server.NewMCPServer(
		"layerlint",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath, svc)
	registerResources(s, projectPath, svc)

	return s
}
