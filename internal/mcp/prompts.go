package mcp

import (
	"context"
	"fmt"
	"os"

	"scrivener/internal/aiservice"

	"github.com/mark3labs/mcp-go/mcp"
)

const mergeChangesTemplate = `You maintain the project's recent-changes list.

Existing entries:
%s

Merge the changes from the current session into the list above:
- Combine entries describing the same piece of work into one entry.
- Keep the 5-10 most important and most recent entries, newest first.
- Move the remaining older entries into the archived list, preserving their
  chronological order.

When the merged lists are ready, call the update_recent_changes tool with the
full current and archived lists. The tool replaces both lists wholesale, so
include every entry that should remain.`

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt("merge_recent_changes",
		mcp.WithPromptDescription("Merge this session's changes into the recorded recent-changes list."),
		mcp.WithArgument("existing_changes",
			mcp.ArgumentDescription("The change entries recorded so far, one per line."),
			mcp.RequiredArgument(),
		),
	), s.handleMergeChangesPrompt)

	s.mcpServer.AddPrompt(mcp.NewPrompt("audit_architecture_consistency",
		mcp.WithPromptDescription("Audit a rewritten file against its original for architectural consistency."),
		mcp.WithArgument("old_file",
			mcp.ArgumentDescription("Path to the original file."),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("new_file",
			mcp.ArgumentDescription("Path to the rewritten file."),
			mcp.RequiredArgument(),
		),
	), s.handleAuditPrompt)
}

func (s *Server) handleMergeChangesPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	existing := req.Params.Arguments["existing_changes"]
	if existing == "" {
		existing = "(no entries recorded yet)"
	}

	return mcp.NewGetPromptResult(
		"Merge recent changes",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleUser,
				mcp.NewTextContent(fmt.Sprintf(mergeChangesTemplate, existing)),
			),
		},
	), nil
}

func (s *Server) handleAuditPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	oldFile := req.Params.Arguments["old_file"]
	newFile := req.Params.Arguments["new_file"]
	if oldFile == "" || newFile == "" {
		return nil, fmt.Errorf("both old_file and new_file arguments are required")
	}

	oldCode, err := os.ReadFile(oldFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read old file: %w", err)
	}
	newCode, err := os.ReadFile(newFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read new file: %w", err)
	}

	rules, err := s.resolveExemptionRules("")
	if err != nil {
		return nil, err
	}

	return mcp.NewGetPromptResult(
		"Audit architecture consistency",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleUser,
				mcp.NewTextContent(aiservice.AuditPrompt(string(oldCode), string(newCode), rules)),
			),
		},
	), nil
}
