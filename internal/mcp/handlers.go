package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ctagard/launch-mcp/internal/config"
	"github.com/ctagard/launch-mcp/internal/errors"
)

// Trigger Handlers

func (s *Server) handleDebugTrigger(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	overrides := request.GetString("overrides", "")

	result, err := s.coordinator.Execute(ctx, overrides)
	if err != nil {
		// The failure is already on the diagnostic sink. Hand the caller
		// the message plus the invocation ID so trigger_history can pull
		// up the full record.
		message := err.Error()
		if result.InvocationID != "" {
			message = fmt.Sprintf("%s (invocation %s)", message, result.InvocationID)
		}
		return mcp.NewToolResultError(message), nil
	}

	return jsonResult(result)
}

// Observability Handlers

func (s *Server) handleTriggerHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if id := request.GetString("invocationId", ""); id != "" {
		record, ok := s.history.Get(id)
		if !ok {
			return mcp.NewToolResultError(errors.InvalidParameter("invocationId", id,
				"an invocation ID returned by debug_trigger or listed by trigger_history").Error()), nil
		}
		return jsonResult(record)
	}

	records := s.history.List()

	return jsonResult(map[string]interface{}{
		"invocations": records,
		"count":       len(records),
	})
}

func (s *Server) handleConfigShow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path := s.configPath
	if path == "" {
		if defaultPath, derr := config.DefaultPath(); derr == nil {
			path = defaultPath
		}
	}

	return jsonResult(map[string]interface{}{
		"configFile": path,
		"target": map[string]interface{}{
			"path":             cfg.Target.Path,
			"arguments":        cfg.Target.Arguments,
			"workingDirectory": cfg.Target.WorkingDirectory,
			"port":             cfg.Target.Port,
		},
		"attach": map[string]interface{}{
			"host":                  cfg.Attach.Host,
			"connectRetries":        cfg.Attach.ConnectRetries,
			"requestTimeoutSeconds": cfg.Attach.RequestTimeoutSeconds,
		},
	})
}

func jsonResult(data interface{}) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
