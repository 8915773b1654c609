package urgency

import (
	"fmt"
	"strconv"
	"strings"
)

// The service's urgency key is a semicolon-delimited composite string whose
// ordinal comparison defines the canonical cross-goal sort order. One
// segment encodes the deadline: the tag "DL" followed by the epoch-seconds
// deadline zero-padded to ten digits. Other segments are opaque and pass
// through untouched.

const (
	keySeparator   = ";"
	deadlineTag    = "DL"
	deadlineDigits = 10
)

// segment is one typed element of a Key. Opaque segments keep their
// verbatim text; deadline segments are held as the decoded epoch value so
// they can be re-rendered from an adjusted deadline.
type segment struct {
	raw        string
	deadline   int64
	isDeadline bool
}

func (s segment) render() string {
	if s.isDeadline {
		return fmt.Sprintf("%s%0*d", deadlineTag, deadlineDigits, s.deadline)
	}
	return s.raw
}

// Key is the structured form of the service's urgency key. It preserves
// segment order, so String() round-trips to a string with the same ordinal
// position as the original.
type Key struct {
	segments []segment
}

// ParseKey decodes a raw urgency key. Segments that do not look like a
// deadline are kept opaque; an unparsable key simply has no deadline
// segment and is returned unchanged by WithDeadline.
func ParseKey(raw string) Key {
	parts := strings.Split(raw, keySeparator)
	segs := make([]segment, 0, len(parts))
	for _, p := range parts {
		if v, ok := parseDeadlineSegment(p); ok {
			segs = append(segs, segment{deadline: v, isDeadline: true})
			continue
		}
		segs = append(segs, segment{raw: p})
	}
	return Key{segments: segs}
}

func parseDeadlineSegment(p string) (int64, bool) {
	if !strings.HasPrefix(p, deadlineTag) {
		return 0, false
	}
	digits := p[len(deadlineTag):]
	if len(digits) != deadlineDigits {
		return 0, false
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// WithDeadline returns a copy of the key whose deadline segment is
// re-derived from the given epoch-seconds deadline. Opaque segments are
// untouched; a key without a deadline segment is returned as-is.
func (k Key) WithDeadline(loseDate int64) Key {
	segs := make([]segment, len(k.segments))
	copy(segs, k.segments)
	for i := range segs {
		if segs[i].isDeadline {
			segs[i].deadline = loseDate
		}
	}
	return Key{segments: segs}
}

// Deadline reports the decoded deadline segment, if the key has one.
func (k Key) Deadline() (int64, bool) {
	for _, s := range k.segments {
		if s.isDeadline {
			return s.deadline, true
		}
	}
	return 0, false
}

// String renders the key back into the service's wire format.
func (k Key) String() string {
	parts := make([]string, len(k.segments))
	for i, s := range k.segments {
		parts[i] = s.render()
	}
	return strings.Join(parts, keySeparator)
}
