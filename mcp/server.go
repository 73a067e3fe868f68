// Package mcp exposes the batch pipeline as Model Context Protocol tools
// over stdio, so an assistant can run batches, validate templates, and
// preview rosters against the same configuration the HTTP server uses.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lvillar/cdaibatch"
	"github.com/lvillar/cdaibatch/batch"
	"github.com/lvillar/cdaibatch/config"
	"github.com/lvillar/cdaibatch/pageops"
	"github.com/lvillar/cdaibatch/roster"
)

// defaultPreviewRows caps preview_roster output when no limit is given.
const defaultPreviewRows = 5

// Server wraps the MCP server together with the service configuration.
type Server struct {
	cfg       *config.Config
	batchCfg  cdaibatch.Config
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server and registers the batch tools. The
// placement file, when configured, is loaded once here.
func NewServer(cfg *config.Config) (*Server, error) {
	batchCfg, err := cfg.BatchConfig()
	if err != nil {
		return nil, fmt.Errorf("mcp: %w", err)
	}

	mcpServer := server.NewMCPServer(
		"cdaibatch",
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		cfg:       cfg,
		batchCfg:  batchCfg,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	processBatchTool := mcp.NewTool(
		"process_batch",
		mcp.WithDescription("Fill one CDAI application per roster row and bundle the generated documents with the processing report into an archive"),
		mcp.WithString("data_path",
			mcp.Required(),
			mcp.Description("Full path to the roster file (CSV or XLSX)"),
		),
		mcp.WithString("output_dir",
			mcp.Description("Directory for the archive and report (defaults to the configured output directory)"),
		),
		mcp.WithString("template_path",
			mcp.Description("Template override (defaults to the configured template)"),
		),
	)
	s.mcpServer.AddTool(processBatchTool, s.handleProcessBatch)

	validateTemplateTool := mcp.NewTool(
		"validate_template",
		mcp.WithDescription("Check that a PDF template can be split and report its page count"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF template"),
		),
	)
	s.mcpServer.AddTool(validateTemplateTool, s.handleValidateTemplate)

	previewRosterTool := mcp.NewTool(
		"preview_roster",
		mcp.WithDescription("Read a roster file and show how its columns map onto the known fields"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the roster file (CSV or XLSX)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of rows to show (default 5)"),
		),
	)
	s.mcpServer.AddTool(previewRosterTool, s.handlePreviewRoster)
}

// Handler functions
func (s *Server) handleProcessBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dataPath, err := request.RequireString("data_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()

	outputDir := s.cfg.OutputDir
	if dir, ok := args["output_dir"].(string); ok && dir != "" {
		outputDir = dir
	}

	batchCfg := s.batchCfg
	if tpl, ok := args["template_path"].(string); ok && tpl != "" {
		batchCfg.TemplatePath = tpl
	}

	proc, err := batch.New(batchCfg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	workDir, err := os.MkdirTemp("", "cdaibatch_")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer os.RemoveAll(workDir)

	res, err := proc.Run(batch.NewRunID(), dataPath, workDir, outputDir)
	if err != nil {
		if errors.Is(err, cdaibatch.ErrEmptyBatch) {
			return mcp.NewToolResultText(fmt.Sprintf(
				"The roster contained no records; only the report was written to %s", res.ReportPath)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRunResult(res)), nil
}

func (s *Server) handleValidateTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := pageops.Validate(path); err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Template validation failed for %s: %v", path, err)), nil
	}

	pages, err := pageops.PageCount(path)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Template validation failed for %s: %v", path, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Template %s is valid: %d page(s)", path, pages)), nil
}

func (s *Server) handlePreviewRoster(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	limit := defaultPreviewRows
	if n, ok := request.GetArguments()["limit"].(float64); ok && n > 0 {
		limit = int(n)
	}

	records, err := roster.Read(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRosterPreview(path, records, limit)), nil
}

// Formatting methods
func formatRunResult(res *cdaibatch.RunResult) string {
	text := fmt.Sprintf("Batch %s finished: %d generated, %d failed\n", res.RunID, res.Generated(), res.Failed())
	text += fmt.Sprintf("Archive: %s\n", res.ArchivePath)
	text += fmt.Sprintf("Report: %s\n", res.ReportPath)

	text += "\nRows:\n"
	for _, rec := range res.Records {
		if rec.Ok() {
			text += fmt.Sprintf("  Row %d (Patient: %s): generated %s\n", rec.Row, rec.Patient, rec.Filename)
		} else {
			text += fmt.Sprintf("  Row %d (Patient: %s): %v\n", rec.Row, rec.Patient, rec.Err)
		}
	}

	return text
}

func formatRosterPreview(path string, records []cdaibatch.Record, limit int) string {
	text := fmt.Sprintf("Roster %s: %d record(s)\n", path, len(records))

	shown := len(records)
	if shown > limit {
		shown = limit
	}
	for i := 0; i < shown; i++ {
		text += fmt.Sprintf("\nRow %d:\n", i+2)
		for _, field := range cdaibatch.KnownFields() {
			if v, ok := records[i].Get(field); ok {
				text += fmt.Sprintf("  %s: %s\n", field, v)
			}
		}
	}
	if len(records) > shown {
		text += fmt.Sprintf("\n... and %d more record(s)\n", len(records)-shown)
	}

	return text
}

// Run serves MCP over stdio until the client disconnects.
func (s *Server) Run() error {
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("mcp: serving stdio: %w", err)
	}
	return nil
}
