package handlers

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/pjjh/beeminder-mcpb/internal/goals"
)

// GoalsHandler exposes the goal listing tools.
type GoalsHandler struct {
	svc *goals.Service
}

// NewGoalsHandler returns a new handler.
func NewGoalsHandler(svc *goals.Service) *GoalsHandler {
	return &GoalsHandler{svc: svc}
}

// RegisterTools registers goal listing tools.
func (gh *GoalsHandler) RegisterTools(s *server.MCPServer) error {
	list := mcp.NewTool("list_goals",
		mcp.WithDescription("List all goals sorted by urgency, with pending auto-tightening already applied to deadlines"),
	)
	s.AddTool(list, gh.handleListGoals)

	emergencies := mcp.NewTool("beemergencies",
		mcp.WithDescription("List goals that must be handled before bed tonight (zero safe days)"),
	)
	s.AddTool(emergencies, gh.handleBeemergencies)

	calendial := mcp.NewTool("calendial_goals",
		mcp.WithDescription("List goals in the calendar-planning window (due in roughly one to two weeks)"),
	)
	s.AddTool(calendial, gh.handleCalendial)

	return nil
}

func (gh *GoalsHandler) handleListGoals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return gh.list(ctx, "list_goals", nil)
}

func (gh *GoalsHandler) handleBeemergencies(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return gh.list(ctx, "beemergencies", goals.Beemergencies())
}

func (gh *GoalsHandler) handleCalendial(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return gh.list(ctx, "calendial_goals", goals.Calendial())
}

func (gh *GoalsHandler) list(ctx context.Context, tool string, filter *goals.Filter) (*mcp.CallToolResult, error) {
	log.Debug().Str("tool", tool).Msg("handling goal listing request")

	start := time.Now()
	listed, err := gh.svc.ListGoals(ctx, filter)
	elapsed := time.Since(start)

	if err != nil {
		log.Error().Err(err).Str("tool", tool).Dur("elapsed", elapsed).Msg("goal listing failed")
		return errorResult("list goals", err), nil
	}

	log.Debug().
		Str("tool", tool).
		Int("count", len(listed)).
		Dur("elapsed", elapsed).
		Msg("goal listing completed")

	payload := map[string]any{
		"goals": listed,
		"count": len(listed),
	}
	return mcp.NewToolResultText(marshalPayload(payload)), nil
}
