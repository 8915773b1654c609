package dayclock

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"7", 7 * time.Hour},
		{"07:00", 7 * time.Hour},
		{"7:30", 7*time.Hour + 30*time.Minute},
		{"0", 0},
		{"23", 23 * time.Hour},
		{"7am", 7 * time.Hour},
		{"7:30pm", 19*time.Hour + 30*time.Minute},
		{"12am", 0},
		{"12pm", 12 * time.Hour},
		{" 9 PM ", 21 * time.Hour},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "abc", "25", "13pm", "0am", "7:60", "7:xx"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q) expected error", in)
		}
	}
}

func TestOffset_FallsBackToDefault(t *testing.T) {
	var p Parser
	if got := p.Offset("not-a-time"); got != DefaultDayStart {
		t.Fatalf("Offset fallback = %v, want %v", got, DefaultDayStart)
	}
}

func TestOffset_CachesLastParse(t *testing.T) {
	var p Parser
	if got := p.Offset("8:15"); got != 8*time.Hour+15*time.Minute {
		t.Fatalf("first Offset = %v", got)
	}
	// Same string returns the cached value without re-parsing.
	if got := p.Offset("8:15"); got != 8*time.Hour+15*time.Minute {
		t.Fatalf("cached Offset = %v", got)
	}
	// A changed string invalidates the cache.
	if got := p.Offset("9"); got != 9*time.Hour {
		t.Fatalf("Offset after change = %v", got)
	}
}

func TestNextMorning(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC)
	got := NextMorning(now, 7*time.Hour)
	want := time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("NextMorning = %v, want %v", got, want)
	}

	// Late in the evening the next morning is still tomorrow's.
	now = time.Date(2026, 8, 31, 23, 30, 0, 0, time.UTC)
	got = NextMorning(now, 7*time.Hour)
	if !got.Equal(want) {
		t.Fatalf("NextMorning late evening = %v, want %v", got, want)
	}
}
