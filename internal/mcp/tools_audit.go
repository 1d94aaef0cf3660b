package mcp

import (
	"context"
	"fmt"
	"os"
	"time"

	"scrivener/internal/aiservice"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerAuditTools() {
	s.mcpServer.AddTool(mcp.NewTool("audit_architecture_consistency",
		mcp.WithDescription("Audit a rewritten file against its original with a reference model. "+
			"The audited result, with CRITICAL_ERROR and RISK_INFO markers inserted where problems were found, "+
			"is written back over the new file, which is then marked audited."),
		mcp.WithString("old_file", mcp.Required(), mcp.Description("Path to the original file.")),
		mcp.WithString("new_file", mcp.Required(), mcp.Description("Path to the rewritten file. Overwritten with the audited result.")),
		mcp.WithString("exemption_file",
			mcp.Description("Optional file of user-defined exemption rules, with optional YAML frontmatter. "+
				"When omitted, the audit_exemptions list variable is consulted."),
		),
	), s.handleAuditConsistency)
}

func (s *Server) handleAuditConsistency(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	oldFile, err := req.RequireString("old_file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newFile, err := req.RequireString("new_file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	exemptionFile := req.GetString("exemption_file", "")

	oldCode, err := os.ReadFile(oldFile)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read old file: %v", err)), nil
	}
	newCode, err := os.ReadFile(newFile)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read new file: %v", err)), nil
	}

	rules, err := s.resolveExemptionRules(exemptionFile)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start := time.Now()
	audited, err := s.ai.AuditConsistency(ctx, string(oldCode), string(newCode), rules)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("audit request failed: %v", err)), nil
	}
	s.logger.LogPerformance("audit_architecture_consistency", start)

	info, err := os.Stat(newFile)
	mode := os.FileMode(0644)
	if err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(newFile, []byte(audited), mode); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to write audited file: %v", err)), nil
	}

	if _, err := s.store.MarkAudited(newFile); err != nil {
		s.logger.Warn("Audit succeeded but status tracking failed", "file", newFile, "error", err)
	}

	criticalErrors, riskInfos := aiservice.CountMarkers(audited)
	summary := fmt.Sprintf("Audit complete for %s.\n", newFile)
	if criticalErrors == 0 && riskInfos == 0 {
		summary += "No issues found; the file was marked audited."
	} else {
		summary += fmt.Sprintf(
			"Found %d CRITICAL_ERROR and %d RISK_INFO markers; review the annotated file before proceeding.",
			criticalErrors, riskInfos)
	}
	return mcp.NewToolResultText(summary), nil
}
