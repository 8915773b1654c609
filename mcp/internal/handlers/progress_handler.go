package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/pjjh/beeminder-mcpb/internal/goals"
)

// ProgressHandler exposes the record_progress tools.
type ProgressHandler struct {
	svc *goals.Service
}

// NewProgressHandler returns a new handler.
func NewProgressHandler(svc *goals.Service) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

// RegisterTools registers progress-recording tools.
func (ph *ProgressHandler) RegisterTools(s *server.MCPServer) error {
	record := mcp.NewTool("record_progress",
		mcp.WithDescription("Record progress against a goal, wait for the service to recalculate, and return the datapoint id plus the goal's settled urgency"),
		mcp.WithString("goal_slug", mcp.Required(), mcp.Description("Slug identifying the goal")),
		mcp.WithNumber("value", mcp.Required(), mcp.Description("Progress amount in the goal's units")),
		mcp.WithString("comment", mcp.Description("Optional comment stored with the datapoint")),
	)
	s.AddTool(record, ph.handleRecordProgress)

	yesterday := mcp.NewTool("record_progress_yesterday",
		mcp.WithDescription("Record progress dated yesterday, for entries the user forgot to log before their day rolled over"),
		mcp.WithString("goal_slug", mcp.Required(), mcp.Description("Slug identifying the goal")),
		mcp.WithNumber("value", mcp.Required(), mcp.Description("Progress amount in the goal's units")),
		mcp.WithString("comment", mcp.Description("Optional comment stored with the datapoint")),
	)
	s.AddTool(yesterday, ph.handleRecordProgressYesterday)

	return nil
}

func (ph *ProgressHandler) handleRecordProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return ph.record(ctx, req, false)
}

func (ph *ProgressHandler) handleRecordProgressYesterday(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return ph.record(ctx, req, true)
}

func (ph *ProgressHandler) record(ctx context.Context, req mcp.CallToolRequest, backdate bool) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("goal_slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, ok := req.GetArguments()["value"].(float64) // JSON numbers decoded as float64
	if !ok {
		return mcp.NewToolResultError("value must be a number"), nil
	}
	var comment string
	if v, ok := req.GetArguments()["comment"].(string); ok {
		comment = v
	}

	log.Debug().
		Str("goal_slug", slug).
		Float64("value", value).
		Bool("backdate", backdate).
		Msg("handling record_progress request")

	start := time.Now()
	var res *goals.RecordedProgress
	if backdate {
		res, err = ph.svc.RecordProgressYesterday(ctx, slug, value, comment)
	} else {
		res, err = ph.svc.RecordProgress(ctx, slug, value, comment, nil)
	}
	elapsed := time.Since(start)

	if err != nil {
		log.Error().
			Err(err).
			Str("goal_slug", slug).
			Dur("elapsed", elapsed).
			Msg("record_progress failed")
		return errorResult("record progress", err), nil
	}

	log.Debug().
		Str("goal_slug", slug).
		Str("datapoint_id", res.DatapointID).
		Str("urgency_horizon", string(res.Goal.UrgencyHorizon)).
		Dur("elapsed", elapsed).
		Msg("record_progress completed")

	return mcp.NewToolResultText(marshalPayload(res)), nil
}

// helper shared by handlers; keeps JSON rendering in one place
func marshalPayload(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
