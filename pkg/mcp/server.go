// Package mcp exposes the portfolio and GitHub tools over the Model Context
// Protocol's streamable HTTP transport.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/mcp/tools"
)

// Server wraps the mcp-go MCPServer.
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// NewServer creates a new MCP server instance. hooks may be nil.
func NewServer(name, version string, hooks *server.Hooks, logger *zap.Logger) *Server {
	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
	}
	if hooks != nil {
		opts = append(opts, server.WithHooks(hooks))
	}

	return &Server{
		mcp:    server.NewMCPServer(name, version, opts...),
		logger: logger.Named("mcp"),
	}
}

// ToolDeps groups everything the registered tools need.
type ToolDeps struct {
	Service   string
	Version   string
	Portfolio *tools.PortfolioToolDeps
	GitHub    *tools.GitHubToolDeps
}

// RegisterTools adds the health, portfolio and GitHub tools. A nil group is skipped.
func (s *Server) RegisterTools(deps ToolDeps) {
	tools.RegisterHealthTool(s.mcp, deps.Service, deps.Version)
	if deps.Portfolio != nil {
		tools.RegisterPortfolioTools(s.mcp, deps.Portfolio)
	}
	if deps.GitHub != nil {
		tools.RegisterGitHubTools(s.mcp, deps.GitHub)
	}
	s.logger.Info("Registered MCP tools",
		zap.Bool("portfolio", deps.Portfolio != nil),
		zap.Bool("github", deps.GitHub != nil))
}

// MCP returns the underlying MCPServer for tool registration.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// NewStreamableHTTPServer creates an HTTP transport server wrapping this MCP server.
// The HTTP mux handles routing to /mcp, so no endpoint path is configured here.
func (s *Server) NewStreamableHTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s.mcp,
		server.WithStateLess(true),
	)
}

// RegisterTool is a convenience wrapper for registering a tool.
func (s *Server) RegisterTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcp.AddTool(tool, handler)
}
