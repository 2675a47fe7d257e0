// Package mcp provides the Model Context Protocol (MCP) server implementation.
//
// This package exposes the launch-and-attach trigger through MCP tools so AI
// assistants and other MCP clients can drive it:
//
//   - debug_trigger: start the configured target and attach the debugger,
//     optionally with a one-shot override string
//   - trigger_history: inspect recent invocations and their outcomes
//   - config_show: show the persisted configuration the next trigger
//     will start from
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ctagard/launch-mcp/internal/diag"
	"github.com/ctagard/launch-mcp/internal/trigger"
	"github.com/ctagard/launch-mcp/internal/version"
)

// Server wraps the MCP server around the trigger coordinator
type Server struct {
	mcpServer   *server.MCPServer
	coordinator *trigger.Coordinator
	history     *trigger.History
	configPath  string
	log         *diag.Entry
}

// NewServer creates a new launch-mcp server. configPath is the config file
// the config_show tool reports on; empty means the default location.
func NewServer(coordinator *trigger.Coordinator, history *trigger.History, configPath string) *Server {
	// Create MCP server
	mcpServer := server.NewMCPServer(
		"launch-mcp",
		version.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s := &Server{
		mcpServer:   mcpServer,
		coordinator: coordinator,
		history:     history,
		configPath:  configPath,
		log:         diag.Named("mcp"),
	}

	// Register all tools
	s.registerTools()

	return s
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	s.log.Info("serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

// Close shuts down the server
func (s *Server) Close() {
	s.history.Close()
}

// GetCoordinator returns the trigger coordinator
func (s *Server) GetCoordinator() *trigger.Coordinator {
	return s.coordinator
}

// GetHistory returns the invocation history
func (s *Server) GetHistory() *trigger.History {
	return s.history
}
