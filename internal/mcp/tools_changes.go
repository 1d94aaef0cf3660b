package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerChangeTools() {
	s.mcpServer.AddTool(mcp.NewTool("update_recent_changes",
		mcp.WithDescription("Replace the recent-changes lists wholesale. "+
			"Merge new entries into the existing lists before calling; use the merge_recent_changes prompt for guidance."),
		mcp.WithArray("current",
			mcp.Required(),
			mcp.Description("Current change entries, newest first."),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("archived",
			mcp.Description("Archived change entries. Defaults to the empty list."),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), s.handleUpdateRecentChanges)

	s.mcpServer.AddTool(mcp.NewTool("get_recent_changes",
		mcp.WithDescription("Read the recent-changes lists."),
	), s.handleGetRecentChanges)
}

func (s *Server) handleUpdateRecentChanges(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	current := req.GetStringSlice("current", nil)
	if current == nil {
		return mcp.NewToolResultError("required argument \"current\" not found"), nil
	}
	archived := req.GetStringSlice("archived", nil)

	if err := s.store.UpdateRecentChanges(current, archived); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update recent changes: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Recorded %d current and %d archived changes", len(current), len(archived))), nil
}

func (s *Server) handleGetRecentChanges(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	changes, err := s.store.GetRecentChanges()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read recent changes: %v", err)), nil
	}

	var b strings.Builder
	b.WriteString("# Recent changes\n\n")
	if len(changes.Current) == 0 {
		b.WriteString("(none)\n")
	}
	for _, c := range changes.Current {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	if len(changes.Archived) > 0 {
		b.WriteString("\n# Archived\n\n")
		for _, c := range changes.Archived {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}
