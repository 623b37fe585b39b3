package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/layerlint/internal/application"
)

func registerResources(s *server.MCPServer, projectPath string, svc *application.AnalyzeService) {
	// 1. layerlint://config - effective project configuration
	s.AddResource(
		mcplib.NewResource(
			"layerlint://config",
			"Configuration",
			mcplib.WithResourceDescription("Effective .layerlint.yaml configuration merged with defaults"),
			mcplib.WithMIMEType("application/json"),
		),
		handleConfigResource(projectPath, svc),
	)

	// 2. layerlint://history - recorded runs
	s.AddResource(
		mcplib.NewResource(
			"layerlint://history",
			"Run History",
			mcplib.WithResourceDescription("Summary of previous analysis runs, oldest first"),
			mcplib.WithMIMEType("application/json"),
		),
		handleHistoryResource(projectPath, svc),
	)
}

func handleConfigResource(projectPath string, svc *application.AnalyzeService) server.ResourceHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		cfg, err := svc.Config(projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return jsonResource(request.Params.URI, cfg)
	}
}

func handleHistoryResource(projectPath string, svc *application.AnalyzeService) server.ResourceHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		entries, err := svc.History(projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading history: %w", err)
		}
		return jsonResource(request.Params.URI, entries)
	}
}

func jsonResource(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling resource: %w", err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
