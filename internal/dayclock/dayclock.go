// Package dayclock anchors goal urgency to the user's day boundary rather
// than midnight. The boundary is a configured time-of-day string such as
// "7", "7:30", or "9:30pm".
package dayclock

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultDayStart is used when no day-start is configured or the configured
// value cannot be parsed.
const DefaultDayStart = 7 * time.Hour

// Parse converts a time-of-day string into an offset from midnight.
// Accepted forms: "H", "H:MM", each with an optional am/pm suffix.
func Parse(s string) (time.Duration, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "" {
		return 0, fmt.Errorf("empty day-start value")
	}

	meridiem := ""
	for _, suffix := range []string{"am", "pm"} {
		if strings.HasSuffix(raw, suffix) {
			meridiem = suffix
			raw = strings.TrimSpace(strings.TrimSuffix(raw, suffix))
			break
		}
	}

	hourPart, minutePart, hasMinute := strings.Cut(raw, ":")
	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, fmt.Errorf("invalid hour %q: %w", hourPart, err)
	}

	minute := 0
	if hasMinute {
		minute, err = strconv.Atoi(minutePart)
		if err != nil {
			return 0, fmt.Errorf("invalid minute %q: %w", minutePart, err)
		}
		if minute < 0 || minute > 59 {
			return 0, fmt.Errorf("minute %d out of range", minute)
		}
	}

	switch meridiem {
	case "am":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("hour %d out of range for am/pm", hour)
		}
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("hour %d out of range for am/pm", hour)
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour < 0 || hour > 23 {
			return 0, fmt.Errorf("hour %d out of range", hour)
		}
	}

	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute, nil
}

// Parser caches the last parse so repeated lookups with an unchanged
// configuration string skip re-parsing. Not safe for concurrent use;
// each service owns its own Parser.
type Parser struct {
	last   string
	cached time.Duration
	primed bool
}

// Offset returns the day-start offset for s, falling back to
// DefaultDayStart (with a warning) when s cannot be parsed.
func (p *Parser) Offset(s string) time.Duration {
	if p.primed && p.last == s {
		return p.cached
	}
	off, err := Parse(s)
	if err != nil {
		log.Warn().Err(err).Str("day_start", s).
			Msg("unparsable day-start, falling back to 07:00")
		off = DefaultDayStart
	}
	p.last = s
	p.cached = off
	p.primed = true
	return off
}

// NextMorning returns the next occurrence of the user's day-start time
// strictly after the start of the current local day.
func NextMorning(now time.Time, dayStart time.Duration) time.Time {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return midnight.Add(24*time.Hour + dayStart)
}
