package mcp

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// sourceExtensions lists the file types the filesystem tools consider code.
// list_files filters on these; file_info counts lines only for them.
var sourceExtensions = map[string]struct{}{
	".py": {}, ".js": {}, ".ts": {}, ".jsx": {}, ".tsx": {}, ".java": {},
	".cpp": {}, ".c": {}, ".h": {}, ".cs": {}, ".go": {}, ".rs": {},
	".rb": {}, ".php": {}, ".swift": {}, ".kt": {}, ".scala": {}, ".r": {},
	".m": {}, ".mm": {}, ".sql": {}, ".sh": {}, ".yaml": {}, ".yml": {},
	".json": {}, ".xml": {},
}

func isSourceFile(name string) bool {
	_, ok := sourceExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

func (s *Server) registerFileSystemTools() {
	s.mcpServer.AddTool(mcp.NewTool("read_file",
		mcp.WithDescription("Read the contents of a file."),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path, absolute or relative to the project root.")),
	), s.handleReadFile)

	s.mcpServer.AddTool(mcp.NewTool("list_files",
		mcp.WithDescription("List source files in a directory, optionally filtered by a glob pattern."),
		mcp.WithString("directory", mcp.Description("Directory to list. Defaults to the project root.")),
		mcp.WithString("pattern", mcp.Description("Glob pattern matched against file names, e.g. '*.go'. Defaults to all files.")),
		mcp.WithBoolean("recursive", mcp.Description("Search subdirectories too. Hidden directories are skipped. Defaults to false.")),
	), s.handleListFiles)

	s.mcpServer.AddTool(mcp.NewTool("file_info",
		mcp.WithDescription("Get size, modification time, type and line count for a file."),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path, absolute or relative to the project root.")),
	), s.handleFileInfo)
}

// resolveFSPath anchors relative paths at the project root, matching how the
// audit tracker resolves its keys.
func (s *Server) resolveFSPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.store.ProjectRoot(), path)
}

func (s *Server) handleReadFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := os.ReadFile(s.resolveFSPath(path))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read file: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleListFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	directory := req.GetString("directory", ".")
	pattern := req.GetString("pattern", "*")
	recursive := req.GetBool("recursive", false)

	root := s.resolveFSPath(directory)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return mcp.NewToolResultError(fmt.Sprintf("directory not found: %s", directory)), nil
	}

	var files []string
	if recursive {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			match, _ := filepath.Match(pattern, d.Name())
			if match && isSourceFile(d.Name()) {
				rel, err := filepath.Rel(root, path)
				if err != nil {
					return err
				}
				files = append(files, filepath.ToSlash(rel))
			}
			return nil
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list files: %v", err)), nil
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list files: %v", err)), nil
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			match, _ := filepath.Match(pattern, entry.Name())
			if match && isSourceFile(entry.Name()) {
				files = append(files, entry.Name())
			}
		}
	}

	if len(files) == 0 {
		return mcp.NewToolResultText("No files found"), nil
	}
	sort.Strings(files)
	return mcp.NewToolResultText(strings.Join(files, "\n")), nil
}

func (s *Server) handleFileInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	abs := s.resolveFSPath(path)
	info, err := os.Stat(abs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get file info: %v", err)), nil
	}

	fileType := filepath.Ext(abs)
	if fileType == "" {
		fileType = "unknown"
	}

	lines := "N/A"
	if isSourceFile(abs) {
		if data, err := os.ReadFile(abs); err == nil {
			n := strings.Count(string(data), "\n")
			if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
				n++
			}
			lines = fmt.Sprintf("%d", n)
		}
	}

	text := fmt.Sprintf("File: %s\nPath: %s\nSize: %d bytes\nModified: %s\nType: %s\nLines: %s",
		info.Name(), abs, info.Size(), info.ModTime().Format(time.RFC3339), fileType, lines)
	return mcp.NewToolResultText(text), nil
}
