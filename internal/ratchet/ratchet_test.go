package ratchet

import (
	"testing"
	"time"

	"github.com/pjjh/beeminder-mcpb/client"
)

func intPtr(v int) *int { return &v }

func TestReconcile_IdentityWithoutAutoratchet(t *testing.T) {
	t.Parallel()
	base := client.LightGoal{
		Slug:       "reading",
		SafeBuf:    10,
		LoseDate:   2000000000,
		UrgencyKey: "U1;DL2000000000;reading",
	}

	for name, g := range map[string]client.LightGoal{
		"absent":   base,
		"negative": func() client.LightGoal { g := base; g.Autoratchet = intPtr(-1); return g }(),
	} {
		res := Reconcile(g)
		if res.SafeDays != g.SafeBuf {
			t.Fatalf("%s: SafeDays = %d, want %d", name, res.SafeDays, g.SafeBuf)
		}
		if res.LoseDate != g.LoseDate {
			t.Fatalf("%s: LoseDate = %d, want %d", name, res.LoseDate, g.LoseDate)
		}
		if res.Key.String() != g.UrgencyKey {
			t.Fatalf("%s: key = %q, want %q", name, res.Key.String(), g.UrgencyKey)
		}
	}
}

func TestReconcile_TightensDeadline(t *testing.T) {
	t.Parallel()
	g := client.LightGoal{
		Slug:        "pushups",
		SafeBuf:     10,
		LoseDate:    2000000000,
		Autoratchet: intPtr(3),
		UrgencyKey:  "U1;DL2000000000;pushups",
	}

	res := Reconcile(g)

	// cap = 3+1 = 4, so 6 days come off the deadline.
	if res.SafeDays != 4 {
		t.Fatalf("SafeDays = %d, want 4", res.SafeDays)
	}
	wantLose := g.LoseDate - 6*86400
	if res.LoseDate != wantLose {
		t.Fatalf("LoseDate = %d, want %d", res.LoseDate, wantLose)
	}
	if want := "U1;DL1999481600;pushups"; res.Key.String() != want {
		t.Fatalf("key = %q, want %q", res.Key.String(), want)
	}
	if want := time.Unix(wantLose, 0).Format(time.RFC3339); res.DueBy != want {
		t.Fatalf("DueBy = %q, want %q", res.DueBy, want)
	}
}

func TestReconcile_NoChangeAtOrBelowCap(t *testing.T) {
	t.Parallel()
	for _, safebuf := range []int{4, 3, 0} {
		g := client.LightGoal{
			SafeBuf:     safebuf,
			LoseDate:    2000000000,
			Autoratchet: intPtr(3),
			UrgencyKey:  "U1;DL2000000000;x",
		}
		res := Reconcile(g)
		if res.SafeDays != safebuf || res.LoseDate != g.LoseDate || res.Key.String() != g.UrgencyKey {
			t.Fatalf("safebuf=%d: unexpected change: %+v", safebuf, res)
		}
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	t.Parallel()
	g := client.LightGoal{
		SafeBuf:     10,
		LoseDate:    2000000000,
		Autoratchet: intPtr(3),
		UrgencyKey:  "U1;DL2000000000;x",
	}
	first := Reconcile(g)

	// Feed the reconciled values back in as if they were raw.
	again := g
	again.SafeBuf = first.SafeDays
	again.LoseDate = first.LoseDate
	again.UrgencyKey = first.Key.String()
	second := Reconcile(again)

	if second.SafeDays != first.SafeDays ||
		second.LoseDate != first.LoseDate ||
		second.Key.String() != first.Key.String() ||
		second.DueBy != first.DueBy {
		t.Fatalf("second pass changed values: first=%+v second=%+v", first, second)
	}
}

func TestReconcile_NeverExtendsDeadline(t *testing.T) {
	t.Parallel()
	for safebuf := 0; safebuf <= 12; safebuf++ {
		g := client.LightGoal{
			SafeBuf:     safebuf,
			LoseDate:    2000000000,
			Autoratchet: intPtr(5),
			UrgencyKey:  "U1;DL2000000000;x",
		}
		res := Reconcile(g)
		if res.LoseDate > g.LoseDate {
			t.Fatalf("safebuf=%d: deadline moved later: %d > %d", safebuf, res.LoseDate, g.LoseDate)
		}
		if res.SafeDays > g.SafeBuf {
			t.Fatalf("safebuf=%d: SafeDays %d exceeds raw safebuf", safebuf, res.SafeDays)
		}
	}
}
