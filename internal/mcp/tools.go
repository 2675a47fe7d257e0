package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers the trigger tool API
func (s *Server) registerTools() {
	// Trigger
	s.registerDebugTrigger()

	// Observability
	s.registerTriggerHistory()
	s.registerConfigShow()
}

// Trigger Tools

func (s *Server) registerDebugTrigger() {
	tool := mcp.NewTool("debug_trigger",
		mcp.WithDescription("Start the configured target executable and attach the debugger to its TCP debug port. "+
			"Uses the persisted launch configuration unless overrides are given. Overrides apply to this "+
			"invocation only and are never persisted. The target is left running even if the attach fails. "+
			"Returns the invocation record including its final state ('done' or 'failed')."),
		mcp.WithString("overrides",
			mcp.Description("Space-separated override tokens, e.g. '-TargetPort=9000 -TargetArguments=\"-level 3\"'. "+
				"Recognized keys (case-insensitive): -TargetPath=, -TargetArguments=, -WorkingDirectory=, -TargetPort=. "+
				"Double-quote values containing spaces. Later duplicates win; unrecognized tokens are ignored."),
		),
	)
	s.mcpServer.AddTool(tool, s.handleDebugTrigger)
}

// Observability Tools

func (s *Server) registerTriggerHistory() {
	tool := mcp.NewTool("trigger_history",
		mcp.WithDescription("List recent trigger invocations newest first, with the state each one reached and any failure. "+
			"Pass invocationId to fetch a single record."),
		mcp.WithString("invocationId",
			mcp.Description("Return only the invocation with this ID"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleTriggerHistory)
}

func (s *Server) registerConfigShow() {
	tool := mcp.NewTool("config_show",
		mcp.WithDescription("Show the persisted launch configuration the next trigger starts from: target path, "+
			"arguments, working directory, debug port, and the attach settings. Reads the config file fresh on every call."),
	)
	s.mcpServer.AddTool(tool, s.handleConfigShow)
}
