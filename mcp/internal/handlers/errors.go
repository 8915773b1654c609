package handlers

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pjjh/beeminder-mcpb/client"
	"github.com/pjjh/beeminder-mcpb/internal/goals"
)

// errorResult maps service errors onto actionable tool messages. Nothing
// is re-thrown past the tool boundary; a failing goal action never crashes
// the process.
func errorResult(action string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, client.ErrGoalNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v - check the slug against list_goals", action, err))
	case errors.Is(err, client.ErrUnauthorized):
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v - set BEEMINDER_AUTH_TOKEN to a valid token", action, err))
	case errors.Is(err, goals.ErrSettleTimeout):
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v - the datapoint was created, re-run list_goals to see its effect", action, err))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", action, err))
	}
}
