package mcp

import (
	"fmt"

	"scrivener/internal/aiservice"
	"scrivener/internal/config"
	"scrivener/internal/logging"
	"scrivener/internal/store"

	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

const serverInstructions = `scrivener tracks project metadata for AI-driven development:
plans, todos linked to plans, per-directory docs, recent-changes lists,
per-file audit status with content-hash staleness detection, and named list
variables. Use audit_architecture_consistency to have a reference model
audit a migrated file against its original; audited files are tracked and
reported stale when they change afterward.`

// Server wires the metadata store and the audit service into an MCP server
// instance. This is the composition root: concrete dependencies are created
// here and injected into the tool handlers.
type Server struct {
	config    *config.Config
	logger    *logging.AppLogger
	store     *store.Store
	ai        *aiservice.Service
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server with all tools and prompts registered.
func NewServer(cfg *config.Config, logger *logging.AppLogger) (*Server, error) {
	root, err := cfg.ResolveProjectRoot()
	if err != nil {
		return nil, err
	}

	st, err := store.New(root, cfg.MetaFileName, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metadata store: %w", err)
	}

	s := &Server{
		config: cfg,
		logger: logger,
		store:  st,
		ai:     aiservice.NewService(cfg.AI, logger),
	}

	s.mcpServer = server.NewMCPServer(
		"scrivener",
		Version,
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)

	s.registerPlanTools()
	s.registerDocTools()
	s.registerTodoTools()
	s.registerChangeTools()
	s.registerFileStatusTools()
	s.registerFileSystemTools()
	s.registerListVariableTools()
	s.registerAuditTools()
	s.registerPrompts()

	logger.Info("MCP server configured", "projectRoot", root, "metaFile", st.MetaPath())
	return s, nil
}

// Store exposes the metadata store for the CLI inspection commands, which
// share the composition done here.
func (s *Server) Store() *store.Store {
	return s.store
}

// Start serves MCP over stdio until the client disconnects.
func (s *Server) Start() error {
	s.logger.Info("Starting MCP stdio server")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
