package types

// CreateDatapointRequest carries the fields for a new datapoint.
// Timestamp is optional; the service defaults it to its own clock.
type CreateDatapointRequest struct {
	Value     float64
	Comment   string
	Timestamp *int64
}
