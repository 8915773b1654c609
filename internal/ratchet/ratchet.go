// Package ratchet makes pending auto-tightening visible immediately. The
// service only applies a goal's autoratchet cap at day rollover, so a goal
// touched today reports a safebuf and losedate that overstate its safety;
// Reconcile computes the values as they will be once the rollover lands.
package ratchet

import (
	"time"

	"github.com/pjjh/beeminder-mcpb/client"
	"github.com/pjjh/beeminder-mcpb/internal/urgency"
)

const secondsPerDay = 86400

// Result holds the would-be-true goal values after the pending rollover.
// It is recomputed on every request and never persisted.
type Result struct {
	SafeDays int
	LoseDate int64
	DueBy    string
	Key      urgency.Key
}

// Reconcile computes the post-rollover deadline and safe-day count for a
// goal snapshot. With autoratchet absent or negative it is the identity on
// safebuf, losedate, and the urgency key. It is pure and idempotent:
// feeding its output back in yields no further change, because the second
// pass sees safebuf already at or below the cap.
func Reconcile(g client.LightGoal) Result {
	res := Result{
		SafeDays: g.SafeBuf,
		LoseDate: g.LoseDate,
		Key:      urgency.ParseKey(g.UrgencyKey),
	}

	if g.Autoratchet != nil && *g.Autoratchet >= 0 {
		// The +1 accounts for today not yet having rolled over.
		capDays := *g.Autoratchet + 1
		if g.SafeBuf > capDays {
			daysToSubtract := g.SafeBuf - capDays
			res.LoseDate = g.LoseDate - int64(daysToSubtract)*secondsPerDay
			res.SafeDays = capDays
			res.Key = res.Key.WithDeadline(res.LoseDate)
		}
	}

	res.DueBy = time.Unix(res.LoseDate, 0).Format(time.RFC3339)
	return res
}
