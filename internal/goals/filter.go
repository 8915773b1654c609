package goals

import "github.com/pjjh/beeminder-mcpb/internal/urgency"

// Filter is a post-hoc predicate over processed goals. NeedsFull marks
// predicates that read fields only present on the full projection
// (fineprint), which makes the aggregator upgrade goals before matching.
type Filter struct {
	Name      string
	NeedsFull bool
	Match     func(ProcessedGoal) bool
}

// Beemergencies selects goals that must be handled before bed: zero safe
// days after reconciliation.
func Beemergencies() *Filter {
	return &Filter{
		Name:  "beemergencies",
		Match: func(g ProcessedGoal) bool { return g.SafeDays == 0 },
	}
}

// Calendial selects goals inside the calendar-planning window.
func Calendial() *Filter {
	return &Filter{
		Name:  "calendial",
		Match: func(g ProcessedGoal) bool { return g.UrgencyHorizon == urgency.HorizonCalendial },
	}
}
