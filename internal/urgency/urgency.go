// Package urgency buckets goal deadlines into human-meaningful horizons
// anchored to the user's day boundary, and models the service's composite
// urgency sort key.
package urgency

import (
	"time"

	"github.com/pjjh/beeminder-mcpb/internal/dayclock"
)

// Horizon is an ordered urgency bucket for a goal deadline.
type Horizon string

const (
	// HorizonToday: must be handled before the user goes to bed tonight.
	HorizonToday Horizon = "today"
	// HorizonTomorrow: due before the day after the next day start.
	HorizonTomorrow Horizon = "tomorrow"
	// HorizonCommitted: inside the akrasia horizon; cannot be pushed back.
	HorizonCommitted Horizon = "committed"
	// HorizonCalendial: close enough to matter for calendar planning.
	HorizonCalendial Horizon = "calendial"
	// HorizonSafe: everything further out.
	HorizonSafe Horizon = "safe"
)

const secondsPerDay = 86400

// Committed covers deadlines up to the 7-day akrasia horizon; calendial
// extends to 15 days out.
const (
	committedMaxDays = 7
	calendialMaxDays = 15
)

// Classify maps a deadline to its urgency horizon relative to now and the
// user's day-start offset. Deadlines landing exactly on a boundary fall
// into the earlier, more urgent bucket. The classification is a total,
// order-preserving function of its inputs.
func Classify(loseDate int64, now time.Time, dayStart time.Duration) Horizon {
	morning := dayclock.NextMorning(now, dayStart).Unix()
	switch {
	case loseDate <= morning:
		return HorizonToday
	case loseDate <= morning+secondsPerDay:
		return HorizonTomorrow
	}
	daysLeft := (loseDate - now.Unix()) / secondsPerDay
	switch {
	case daysLeft <= committedMaxDays:
		return HorizonCommitted
	case daysLeft <= calendialMaxDays:
		return HorizonCalendial
	default:
		return HorizonSafe
	}
}
