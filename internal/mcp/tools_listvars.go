package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"scrivener/internal/store"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerListVariableTools() {
	s.mcpServer.AddTool(mcp.NewTool("create_list_variable",
		mcp.WithDescription("Create a named list variable, replacing any existing one with the same name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Variable name, e.g. skip_rules.")),
		mcp.WithArray("items",
			mcp.Required(),
			mcp.Description("Initial list items."),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithBoolean("need_user_confirmation",
			mcp.Description("Whether changes to this list should be confirmed with the user first. Defaults to false."),
		),
	), s.handleCreateListVariable)

	s.mcpServer.AddTool(mcp.NewTool("read_list_variable",
		mcp.WithDescription("Read one list variable by name, or all list variables when no name is given."),
		mcp.WithString("name", mcp.Description("Variable name. Omit to list every variable.")),
	), s.handleReadListVariable)

	s.mcpServer.AddTool(mcp.NewTool("update_list_variable",
		mcp.WithDescription("Replace the items of an existing list variable."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Variable name to update.")),
		mcp.WithArray("items",
			mcp.Required(),
			mcp.Description("New list items, replacing the old ones."),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithBoolean("need_user_confirmation",
			mcp.Description("New confirmation flag. Omitted keeps the current value."),
		),
	), s.handleUpdateListVariable)

	s.mcpServer.AddTool(mcp.NewTool("delete_list_variable",
		mcp.WithDescription("Delete a list variable by name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Variable name to delete.")),
	), s.handleDeleteListVariable)

	s.mcpServer.AddTool(mcp.NewTool("append_to_list_variable",
		mcp.WithDescription("Append one item to an existing list variable."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Variable name.")),
		mcp.WithString("item", mcp.Required(), mcp.Description("Item to append.")),
	), s.handleAppendToListVariable)

	s.mcpServer.AddTool(mcp.NewTool("remove_from_list_variable",
		mcp.WithDescription("Remove the first occurrence of an item from a list variable."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Variable name.")),
		mcp.WithString("item", mcp.Required(), mcp.Description("Item to remove.")),
	), s.handleRemoveFromListVariable)
}

func (s *Server) handleCreateListVariable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items := req.GetStringSlice("items", nil)
	if items == nil {
		return mcp.NewToolResultError("required argument \"items\" not found"), nil
	}
	needConfirmation := req.GetBool("need_user_confirmation", false)

	if err := s.store.CreateListVariable(name, items, needConfirmation); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create list variable: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Created list variable %s with %d items", name, len(items))), nil
}

func (s *Server) handleReadListVariable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name != "" {
		v, ok, err := s.store.ReadListVariable(name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read list variable: %v", err)), nil
		}
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("list variable not found: %s", name)), nil
		}
		return mcp.NewToolResultText(formatListVariable(name, v)), nil
	}

	vars, err := s.store.ReadAllListVariables()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read list variables: %v", err)), nil
	}
	if len(vars) == 0 {
		return mcp.NewToolResultText("No list variables recorded."), nil
	}

	names := make([]string, 0, len(vars))
	for n := range vars {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, n := range names {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(formatListVariable(n, vars[n]))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleUpdateListVariable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items := req.GetStringSlice("items", nil)
	if items == nil {
		return mcp.NewToolResultError("required argument \"items\" not found"), nil
	}

	var needConfirmation *bool
	if raw, found := req.GetArguments()["need_user_confirmation"]; found {
		if v, ok := raw.(bool); ok {
			needConfirmation = &v
		}
	}

	ok, err := s.store.UpdateListVariable(name, items, needConfirmation)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update list variable: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("list variable not found: %s", name)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated list variable %s, now %d items", name, len(items))), nil
}

func (s *Server) handleDeleteListVariable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, err := s.store.DeleteListVariable(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete list variable: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("list variable not found: %s", name)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted list variable %s", name)), nil
}

func (s *Server) handleAppendToListVariable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	item, err := req.RequireString("item")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, err := s.store.AppendToListVariable(name, item)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to append to list variable: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("list variable not found: %s; use create_list_variable first", name)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Appended to %s", name)), nil
}

func (s *Server) handleRemoveFromListVariable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	item, err := req.RequireString("item")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, err := s.store.RemoveFromListVariable(name, item)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to remove from list variable: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("item or variable not found: %s / %s", name, item)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Removed item from %s", name)), nil
}

func formatListVariable(name string, v *store.ListVariable) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", name)
	if v.NeedUserConfirmation {
		b.WriteString("Changes require user confirmation.\n\n")
	}
	if len(v.Items) == 0 {
		b.WriteString("(empty)\n")
	}
	for _, item := range v.Items {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return b.String()
}
