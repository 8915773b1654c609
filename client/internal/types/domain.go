package types

// ------------------------------
// Core Domain Entities
// ------------------------------

// LightGoal is the bulk-list projection of a Beeminder goal. It omits
// fineprint, and its autoratchet effect may be stale until day rollover.
type LightGoal struct {
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Rate        float64 `json:"rate"`
	RUnits      string  `json:"runits"`
	GUnits      string  `json:"gunits"`
	CurVal      float64 `json:"curval"`
	GoalVal     float64 `json:"goalval"`
	SafeBuf     int     `json:"safebuf"`
	LoseDate    int64   `json:"losedate"`
	Autoratchet *int    `json:"autoratchet"`
	UrgencyKey  string  `json:"urgencykey"`
	Queued      bool    `json:"queued"`

	LastDatapoint *Datapoint `json:"last_datapoint,omitempty"`
}

// FullGoal is the authoritative single-goal projection. A LightGoal is
// upgraded to a FullGoal explicitly; the two are never mixed for the same
// goal within one response.
type FullGoal struct {
	LightGoal
	Fineprint string `json:"fineprint,omitempty"`
}

// Datapoint is a timestamped progress entry against a goal. The ID is
// assigned by the service on creation.
type Datapoint struct {
	ID        string  `json:"id"`
	Timestamp int64   `json:"timestamp"`
	Daystamp  string  `json:"daystamp,omitempty"`
	Value     float64 `json:"value"`
	Comment   string  `json:"comment,omitempty"`
}
