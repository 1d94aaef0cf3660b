// Package mcp provides the Model Context Protocol (MCP) server for scrivener
// using mcp-go.
//
// This package implements an MCP server that lets AI assistants drive
// scrivener's project bookkeeping through a standardized protocol: plans,
// todos, per-directory docs, recent-changes lists, per-file audit status,
// named list variables, and read-only filesystem inspection, plus the
// LLM-backed architecture consistency audit.
//
// # Implementation
//
// The package uses the mcp-go library (github.com/mark3labs/mcp-go). All
// state flows through a single internal/store.Store instance constructed at
// startup and shared by every handler; there is no ambient global state.
//
// # Tool surface
//
// Each metadata operation is exposed as one schema-validated tool. Handlers
// translate store results into text content: not-found conditions become
// plain messages, integrity violations surface the reason and the count of
// blocking records, and unexpected failures become tool errors. Handler
// panics are converted to errors by the recovery middleware, so a bad call
// can never take the server down.
//
// # Prompts
//
// Two prompts are registered: merge_recent_changes, which asks the client
// model to merge change lists and call update_recent_changes with the
// result, and audit_architecture_consistency, which packages two files into
// the fixed audit prompt.
//
// # Usage
//
// The server is typically started as a subprocess by AI assistants that
// support MCP integration. It can also be started manually for testing:
//
//	scrivener serve
//
// The server reads JSON-RPC requests from stdin and writes responses to
// stdout until it receives EOF or is terminated. Logging stays on stderr
// for that reason.
//
// # References
//
// - MCP Specification: https://modelcontextprotocol.io/specification
// - mcp-go Library: https://github.com/mark3labs/mcp-go
package mcp
