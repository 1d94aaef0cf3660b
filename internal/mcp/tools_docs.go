package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerDocTools() {
	s.mcpServer.AddTool(mcp.NewTool("create_doc",
		mcp.WithDescription("Create or replace the documentation for a directory."),
		mcp.WithString("directory", mcp.Required(), mcp.Description("Directory the doc describes, relative to the project root.")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown documentation content.")),
	), s.handleCreateDoc)

	s.mcpServer.AddTool(mcp.NewTool("read_doc",
		mcp.WithDescription("Read the documentation for one directory, or list every documented directory when omitted."),
		mcp.WithString("directory", mcp.Description("Directory to read. Omit to list all docs.")),
	), s.handleReadDoc)

	s.mcpServer.AddTool(mcp.NewTool("update_doc",
		mcp.WithDescription("Update the documentation for a directory that already has one."),
		mcp.WithString("directory", mcp.Required(), mcp.Description("Directory whose doc is updated.")),
		mcp.WithString("content", mcp.Required(), mcp.Description("New markdown content.")),
	), s.handleUpdateDoc)
}

func (s *Server) handleCreateDoc(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := req.RequireString("directory")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.store.CreateDoc(dir, content); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save doc: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Saved documentation for %s", dir)), nil
}

func (s *Server) handleReadDoc(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := req.GetString("directory", "")
	if dir != "" {
		content, ok, err := s.store.ReadDoc(dir)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read doc: %v", err)), nil
		}
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("no documentation recorded for %s", dir)), nil
		}
		return mcp.NewToolResultText(content), nil
	}

	docs, err := s.store.ReadAllDocs()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read docs: %v", err)), nil
	}
	if len(docs) == 0 {
		return mcp.NewToolResultText("No documentation recorded."), nil
	}

	dirs := make([]string, 0, len(docs))
	for d := range docs {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	var b strings.Builder
	for i, d := range dirs {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n", d, docs[d])
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleUpdateDoc(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := req.RequireString("directory")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, err := s.store.UpdateDoc(dir, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update doc: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no documentation recorded for %s; use create_doc first", dir)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated documentation for %s", dir)), nil
}
