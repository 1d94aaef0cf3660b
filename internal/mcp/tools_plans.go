package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scrivener/internal/store"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPlanTools() {
	s.mcpServer.AddTool(mcp.NewTool("create_plan",
		mcp.WithDescription("Create a new project plan and return its generated ID."),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Markdown content of the plan."),
		),
		mcp.WithString("title",
			mcp.Description("Optional plan title. Defaults to a sequential name."),
		),
	), s.handleCreatePlan)

	s.mcpServer.AddTool(mcp.NewTool("read_plan",
		mcp.WithDescription("Read a single plan by ID, or all plans when no ID is given."),
		mcp.WithString("plan_id",
			mcp.Description("Plan ID such as plan_001. Omit to list every plan."),
		),
	), s.handleReadPlan)

	s.mcpServer.AddTool(mcp.NewTool("update_plan",
		mcp.WithDescription("Replace the content of an existing plan. The title is kept unless a new one is given."),
		mcp.WithString("plan_id", mcp.Required(), mcp.Description("Plan ID to update.")),
		mcp.WithString("content", mcp.Required(), mcp.Description("New markdown content.")),
		mcp.WithString("title", mcp.Description("New title. Empty keeps the current title.")),
	), s.handleUpdatePlan)

	s.mcpServer.AddTool(mcp.NewTool("delete_plan",
		mcp.WithDescription("Delete a plan. Fails if any todos still reference it."),
		mcp.WithString("plan_id", mcp.Required(), mcp.Description("Plan ID to delete.")),
	), s.handleDeletePlan)
}

func (s *Server) handleCreatePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := req.GetString("title", "")

	id, err := s.store.CreatePlan(content, title)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create plan: %v", err)), nil
	}

	s.logger.Info("Plan created", "id", id)
	return mcp.NewToolResultText(fmt.Sprintf("Created plan %s", id)), nil
}

func (s *Server) handleReadPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("plan_id", "")
	if id != "" {
		plan, ok, err := s.store.ReadPlan(id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read plan: %v", err)), nil
		}
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("plan not found: %s", id)), nil
		}
		return mcp.NewToolResultText(formatPlan(plan)), nil
	}

	plans, err := s.store.ReadAllPlans()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read plans: %v", err)), nil
	}
	if len(plans) == 0 {
		return mcp.NewToolResultText("No plans recorded."), nil
	}

	var b strings.Builder
	for i, p := range plans {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		b.WriteString(formatPlan(p))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleUpdatePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("plan_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := req.GetString("title", "")

	ok, err := s.store.UpdatePlan(id, content, title)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update plan: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("plan not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated plan %s", id)), nil
}

func (s *Server) handleDeletePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("plan_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, err := s.store.DeletePlan(id)
	if err != nil {
		var linked *store.PlanTodosError
		if errors.As(err, &linked) {
			return mcp.NewToolResultError(fmt.Sprintf(
				"cannot delete plan %s: %d todos still reference it; delete or finish them first",
				linked.PlanID, linked.TodoCount)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete plan: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("plan not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted plan %s", id)), nil
}

func formatPlan(p *store.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s (%s)\n\n", p.Title, p.ID)
	if p.Directory != "" {
		fmt.Fprintf(&b, "Directory: %s\n", p.Directory)
	}
	fmt.Fprintf(&b, "Created: %s", p.CreatedAt)
	if p.UpdatedAt != "" && p.UpdatedAt != p.CreatedAt {
		fmt.Fprintf(&b, "  Updated: %s", p.UpdatedAt)
	}
	b.WriteString("\n\n")
	b.WriteString(p.Content)
	b.WriteString("\n")
	return b.String()
}
