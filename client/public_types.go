package client

import "github.com/pjjh/beeminder-mcpb/client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	// Domain entities
	LightGoal = types.LightGoal
	FullGoal  = types.FullGoal
	Datapoint = types.Datapoint

	// Requests
	CreateDatapointRequest = types.CreateDatapointRequest
)

// Errors re-exported in errors.go
