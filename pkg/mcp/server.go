// Package mcp exposes the coordination pipeline to MCP clients over stdio,
// so LLM assistants can run rounds, review pending plans and approve or
// cancel executions.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/buildsense/buildsense/pkg/db"
	"github.com/buildsense/buildsense/pkg/pipeline"
)

// Server wraps the MCP server with the coordination pipeline.
type Server struct {
	mcpServer *server.MCPServer
	store     *db.DB
	pipe      *pipeline.Pipeline
}

// NewServer creates a new MCP server over the pipeline.
func NewServer(store *db.DB, pipe *pipeline.Pipeline) *Server {
	s := &Server{
		store: store,
		pipe:  pipe,
	}

	// Create MCP server
	s.mcpServer = server.NewMCPServer(
		"buildsense",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Register all tools
	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
