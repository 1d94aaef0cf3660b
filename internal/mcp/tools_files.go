package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerFileStatusTools() {
	s.mcpServer.AddTool(mcp.NewTool("update_file_status",
		mcp.WithDescription("Record whether a file has been audited. Marking audited stores the file's current content hash; "+
			"marking not audited clears the record."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("File path, absolute or relative to the project root.")),
		mcp.WithBoolean("audited", mcp.Required(), mcp.Description("True marks the file audited, false clears its audit record.")),
	), s.handleUpdateFileStatus)

	s.mcpServer.AddTool(mcp.NewTool("get_file_status",
		mcp.WithDescription("Read the audit status of a single file, including whether it changed since its audit."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("File path, absolute or relative to the project root.")),
	), s.handleGetFileStatus)

	s.mcpServer.AddTool(mcp.NewTool("list_file_status",
		mcp.WithDescription("Render a markdown table of audit status for source files under a directory, "+
			"or for every tracked file when no directory is given."),
		mcp.WithString("directory", mcp.Description("Directory to scan, relative to the project root. Omit for all tracked files.")),
	), s.handleListFileStatus)
}

func (s *Server) handleUpdateFileStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	audited, err := req.RequireBool("audited")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if audited {
		ok, err := s.store.MarkAudited(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to mark file audited: %v", err)), nil
		}
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("file not found: %s", path)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Marked %s as audited", path)), nil
	}

	if _, err := s.store.ClearAudit(path); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to clear audit status: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Cleared audit status for %s", path)), nil
}

func (s *Server) handleGetFileStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	status, ok, err := s.store.GetStatus(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read file status: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("%s: no audit record", path)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", path)
	fmt.Fprintf(&b, "Audited: %t\n", status.Audited)
	if status.AuditedAt != "" {
		fmt.Fprintf(&b, "Audited at: %s\n", status.AuditedAt)
	}
	if status.ModifiedAfterAudit {
		b.WriteString("Modified after audit: yes, the file changed since it was audited\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleListFileStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := req.GetString("directory", "")

	table, err := s.store.ListStatus(dir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list file status: %v", err)), nil
	}
	return mcp.NewToolResultText(table), nil
}
