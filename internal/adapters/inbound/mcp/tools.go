package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/layerlint/internal/application"
	"github.com/openkraft/layerlint/internal/domain"
)

func registerTools(s *server.MCPServer, projectPath string, svc *application.AnalyzeService) {
	// 1. layerlint_analyze_project
	s.AddTool(
		mcplib.NewTool("layerlint_analyze_project",
			mcplib.WithDescription("Analyze the whole project and return every architecture violation as JSON"),
			mcplib.WithBoolean("changed_only", mcplib.Description("Only analyze files git reports as changed")),
		),
		handleAnalyzeProject(projectPath, svc),
	)

	// 2. layerlint_analyze_file
	s.AddTool(
		mcplib.NewTool("layerlint_analyze_file",
			mcplib.WithDescription("Analyze a single file in the context of its project and return its violations"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path to the file, relative to the project root"),
			),
		),
		handleAnalyzeFile(projectPath, svc),
	)

	// 3. layerlint_duplicates
	s.AddTool(
		mcplib.NewTool("layerlint_duplicates",
			mcplib.WithDescription("List hardcoded literals repeated across the project, with corpus statistics"),
			mcplib.WithNumber("min_count", mcplib.Description("Only list literals seen at least this many times (default 2)")),
		),
		handleDuplicates(projectPath, svc),
	)
}

func handleAnalyzeProject(projectPath string, svc *application.AnalyzeService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		report, err := svc.Analyze(ctx, projectPath, application.AnalyzeOptions{
			ChangedOnly: request.GetBool("changed_only", false),
		})
		if err != nil {
			return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

// fileResult is the analyze_file payload.
type fileResult struct {
	File       string             `json:"file"`
	Layer      string             `json:"layer,omitempty"`
	Violations []domain.Violation `json:"violations"`
	Errors     []domain.FileError `json:"errors,omitempty"`
}

func handleAnalyzeFile(projectPath string, svc *application.AnalyzeService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		report, err := svc.AnalyzeFile(ctx, projectPath, file)
		if err != nil {
			return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil
		}
		if report.FilesAnalyzed == 0 {
			return errorResult(fmt.Sprintf("%s is not an analyzable source file in this project", file)), nil
		}

		res := fileResult{File: file, Violations: []domain.Violation{}, Errors: report.Errors}
		if len(report.Files) > 0 {
			f := report.Files[0]
			res.File = f.Path
			res.Layer = f.Layer.String()
			res.Violations = f.Violations
		}
		return jsonResult(res)
	}
}

func handleDuplicates(projectPath string, svc *application.AnalyzeService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		minCount := request.GetInt("min_count", 2)

		report, err := svc.Analyze(ctx, projectPath, application.AnalyzeOptions{})
		if err != nil {
			return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil
		}

		summary := report.Duplicates
		var kept []domain.DuplicateEntry
		for _, e := range summary.Entries {
			if e.Count() >= minCount {
				kept = append(kept, e)
			}
		}
		summary.Entries = kept
		return jsonResult(summary)
	}
}

// jsonResult marshals v to JSON and wraps it in a tool result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
