package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scrivener/internal/gitlog"
	"scrivener/internal/store"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTodoTools() {
	s.mcpServer.AddTool(mcp.NewTool("create_todo",
		mcp.WithDescription("Create a todo linked to an existing plan."),
		mcp.WithString("content", mcp.Required(), mcp.Description("What the todo is about.")),
		mcp.WithString("related_plan", mcp.Required(), mcp.Description("Plan ID this todo belongs to.")),
		mcp.WithString("position",
			mcp.Description("Where to insert the todo: start or end. Defaults to end."),
			mcp.Enum(store.PositionStart, store.PositionEnd),
		),
	), s.handleCreateTodo)

	s.mcpServer.AddTool(mcp.NewTool("read_todos",
		mcp.WithDescription("List todos filtered by status. Defaults to pending."),
		mcp.WithString("status",
			mcp.Description("Status filter: pending or completed."),
			mcp.Enum(store.StatusPending, store.StatusCompleted),
		),
	), s.handleReadTodos)

	s.mcpServer.AddTool(mcp.NewTool("finish_todo",
		mcp.WithDescription("Mark a todo completed and record the git log of the work. "+
			"Pass 'auto' as git_log to capture the latest commits from the project repository."),
		mcp.WithString("todo_id", mcp.Required(), mcp.Description("Todo ID such as todo_001.")),
		mcp.WithString("git_log", mcp.Required(), mcp.Description("Git log text describing the commits, or 'auto'.")),
	), s.handleFinishTodo)

	s.mcpServer.AddTool(mcp.NewTool("delete_todo",
		mcp.WithDescription("Delete a todo by ID."),
		mcp.WithString("todo_id", mcp.Required(), mcp.Description("Todo ID to delete.")),
	), s.handleDeleteTodo)

	s.mcpServer.AddTool(mcp.NewTool("move_todo",
		mcp.WithDescription("Move a todo to the start or end of the list."),
		mcp.WithString("todo_id", mcp.Required(), mcp.Description("Todo ID to move.")),
		mcp.WithString("position",
			mcp.Required(),
			mcp.Description("Target position: start or end."),
			mcp.Enum(store.PositionStart, store.PositionEnd),
		),
	), s.handleMoveTodo)
}

func (s *Server) handleCreateTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	relatedPlan, err := req.RequireString("related_plan")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	position := req.GetString("position", store.PositionEnd)

	id, err := s.store.CreateTodo(content, relatedPlan, position)
	if err != nil {
		if errors.Is(err, store.ErrPlanNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("plan not found: %s", relatedPlan)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to create todo: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Created todo %s linked to %s", id, relatedPlan)), nil
}

func (s *Server) handleReadTodos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := req.GetString("status", store.StatusPending)

	todos, err := s.store.ReadTodos(status)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read todos: %v", err)), nil
	}
	if len(todos) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No %s todos.", status)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s todos\n\n", status)
	for _, t := range todos {
		fmt.Fprintf(&b, "- [%s] %s (plan: %s)\n", t.ID, t.Content, t.RelatedPlan)
		if t.Status == store.StatusCompleted && t.GitLog != "" {
			for _, line := range strings.Split(t.GitLog, "\n") {
				fmt.Fprintf(&b, "    %s\n", line)
			}
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleFinishTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("todo_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	gitLog, err := req.RequireString("git_log")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if gitLog == "auto" {
		collected, err := gitlog.Collect(s.store.ProjectRoot(), gitlog.DefaultCount)
		if err != nil {
			s.logger.Warn("Could not collect git log, recording placeholder", "error", err)
			collected = "(git log unavailable)"
		}
		gitLog = collected
	}

	ok, err := s.store.UpdateTodoStatus(id, store.StatusCompleted, gitLog)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to finish todo: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("todo not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Completed todo %s\n\nGit log:\n%s", id, gitLog)), nil
}

func (s *Server) handleDeleteTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("todo_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, err := s.store.DeleteTodo(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete todo: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("todo not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted todo %s", id)), nil
}

func (s *Server) handleMoveTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("todo_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	position, err := req.RequireString("position")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, err := s.store.MoveTodo(id, position)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to move todo: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("todo not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Moved todo %s to %s", id, position)), nil
}
