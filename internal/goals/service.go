// Package goals assembles the goal list and progress-recording flows on
// top of the Beeminder SDK: it decides when the lightweight bulk
// projection is trustworthy, upgrades individual goals to the full
// projection when it is not, and waits out the service's asynchronous
// recalculation after a write.
package goals

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/pjjh/beeminder-mcpb/client"
	"github.com/pjjh/beeminder-mcpb/internal/dayclock"
	"github.com/pjjh/beeminder-mcpb/internal/ratchet"
	"github.com/pjjh/beeminder-mcpb/internal/urgency"
)

const secondsPerDay = 86400

// API is the slice of the Beeminder SDK this service consumes.
// *client.Client satisfies it.
type API interface {
	FetchGoals(ctx context.Context) ([]client.LightGoal, error)
	FetchGoal(ctx context.Context, slug string) (*client.FullGoal, error)
	CreateDatapoint(ctx context.Context, slug string, req client.CreateDatapointRequest) (*client.Datapoint, error)
}

// FetchPolicy controls how full projections are fetched when a filter
// predicate reads full-only fields.
type FetchPolicy string

const (
	// FetchLazy upgrades goals one at a time, only when the predicate
	// actually needs the full projection and no earlier step fetched it.
	FetchLazy FetchPolicy = "lazy"
	// FetchEager upgrades every goal during the concurrent fan-out as soon
	// as a full-field filter is present.
	FetchEager FetchPolicy = "eager"
)

// Config groups the service tunables. Zero values fall back to defaults.
type Config struct {
	// DayStart is the user's day boundary as a time-of-day string
	// ("7", "7:30", "9pm"). Malformed values degrade to 07:00.
	DayStart string

	// PollInterval is the delay between settle polls after a write.
	PollInterval time.Duration

	// PollMaxAttempts bounds the settle polls before giving up with
	// ErrSettleTimeout.
	PollMaxAttempts int

	// FullFetchPolicy selects lazy or eager full fetches for filters.
	FullFetchPolicy FetchPolicy
}

// ErrSettleTimeout is returned when a goal keeps reporting queued after the
// configured number of settle polls.
var ErrSettleTimeout = errors.New("goal recalculation did not settle in time")

// errStillQueued drives the poll retry loop; never escapes awaitSettled.
var errStillQueued = errors.New("recalculation still queued")

// Service implements the goal listing and progress recording operations.
// Safe for concurrent tool invocations: all per-request state lives on the
// stack, and the day-start parse cache is guarded internally.
type Service struct {
	api API
	cfg Config

	mu  sync.Mutex
	day dayclock.Parser

	now func() time.Time // injectable for tests
}

// NewService constructs a Service over the given API boundary.
func NewService(api API, cfg Config) *Service {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.PollMaxAttempts <= 0 {
		cfg.PollMaxAttempts = 30
	}
	if cfg.FullFetchPolicy == "" {
		cfg.FullFetchPolicy = FetchLazy
	}
	return &Service{api: api, cfg: cfg, now: time.Now}
}

// ProcessedGoal is a goal snapshot with pending auto-tightening applied and
// the deadline bucketed into an urgency horizon. Ephemeral; rebuilt on
// every request.
type ProcessedGoal struct {
	Slug            string          `json:"slug"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	UrgencyHorizon  urgency.Horizon `json:"urgency_horizon"`
	DueBy           string          `json:"due_by"`
	SafeDays        int             `json:"safe_days"`
	SafeBuf         int             `json:"safebuf"`
	RateDescription string          `json:"rate_description"`
	CurrentValue    float64         `json:"current_value"`
	TargetValue     float64         `json:"target_value"`
	UrgencyKey      string          `json:"urgencykey"`
}

// RecordedProgress is the result of a progress submission once the remote
// recalculation has settled.
type RecordedProgress struct {
	DatapointID string        `json:"datapoint_id"`
	Goal        ProcessedGoal `json:"goal"`
}

// RecordProgress submits a datapoint and blocks until the goal's
// recalculation settles, then returns the reconciled, classified snapshot.
// A nil timestamp lets the service date the datapoint "now".
func (s *Service) RecordProgress(ctx context.Context, slug string, value float64, comment string, timestamp *time.Time) (*RecordedProgress, error) {
	req := client.CreateDatapointRequest{Value: value, Comment: comment}
	if timestamp != nil {
		ts := timestamp.Unix()
		req.Timestamp = &ts
	}

	// The write is not retried; any failure propagates as-is.
	dp, err := s.api.CreateDatapoint(ctx, slug, req)
	if err != nil {
		return nil, err
	}

	settled, err := s.awaitSettled(ctx, slug)
	if err != nil {
		return nil, err
	}

	goal := s.process(settled.LightGoal, settled)
	return &RecordedProgress{DatapointID: dp.ID, Goal: goal}, nil
}

// RecordProgressYesterday is RecordProgress with the datapoint backdated by
// one day.
func (s *Service) RecordProgressYesterday(ctx context.Context, slug string, value float64, comment string) (*RecordedProgress, error) {
	yesterday := s.now().Add(-secondsPerDay * time.Second)
	return s.RecordProgress(ctx, slug, value, comment, &yesterday)
}

// awaitSettled polls the full projection until the service stops reporting
// queued. Polls are bounded; exhausting them yields ErrSettleTimeout so a
// permanently queued goal cannot hang the tool call.
func (s *Service) awaitSettled(ctx context.Context, slug string) (*client.FullGoal, error) {
	var settled *client.FullGoal
	polls := 0

	op := func() error {
		polls++
		settlePollsTotal.Inc()
		g, err := s.api.FetchGoal(ctx, slug)
		if err != nil {
			if client.IsIrrecoverable(err) {
				return backoff.Permanent(err)
			}
			// Transient fetch failures burn attempts from the same poll
			// budget rather than failing a submission that already landed.
			return err
		}
		if g.Queued {
			return errStillQueued
		}
		settled = g
		return nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.cfg.PollInterval), uint64(s.cfg.PollMaxAttempts-1)),
		ctx,
	)
	start := s.now()
	if err := backoff.Retry(op, bo); err != nil {
		if errors.Is(err, errStillQueued) {
			settleTimeoutsTotal.Inc()
			return nil, fmt.Errorf("goal %s: %w (%d polls over %s)", slug, ErrSettleTimeout, polls, s.now().Sub(start))
		}
		return nil, err
	}
	return settled, nil
}

// ListGoals fetches all goals, reconciles the ones whose lightweight
// snapshot may be stale, applies the optional filter, and returns them in
// the canonical urgency order.
func (s *Service) ListGoals(ctx context.Context, filter *Filter) ([]ProcessedGoal, error) {
	light, err := s.api.FetchGoals(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	eager := filter != nil && filter.NeedsFull && s.cfg.FullFetchPolicy == FetchEager

	// Fan out per goal. Each branch reads its own snapshot and writes its
	// own slot, so no locking is needed.
	processed := make([]ProcessedGoal, len(light))
	upgraded := make([]bool, len(light))
	var wg sync.WaitGroup
	for i := range light {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g := light[i]
			if !s.needsRatchetCheck(g, now) && !eager {
				processed[i] = s.process(g, nil)
				return
			}
			full, err := s.api.FetchGoal(ctx, g.Slug)
			if err != nil {
				// Degrade to the lightweight snapshot instead of failing
				// the whole listing.
				log.Warn().Err(err).Str("slug", g.Slug).Msg("full goal fetch failed, using lightweight snapshot")
				processed[i] = s.process(g, nil)
				return
			}
			upgraded[i] = true
			processed[i] = s.process(full.LightGoal, full)
		}(i)
	}
	wg.Wait()

	// A predicate reading full-only fields upgrades the remaining goals
	// here, reusing any fetch the fan-out already made.
	if filter != nil && filter.NeedsFull {
		for i := range processed {
			if upgraded[i] {
				continue
			}
			full, err := s.api.FetchGoal(ctx, light[i].Slug)
			if err != nil {
				log.Warn().Err(err).Str("slug", light[i].Slug).Msg("full goal fetch failed, filtering on lightweight snapshot")
				continue
			}
			upgraded[i] = true
			processed[i] = s.process(full.LightGoal, full)
		}
	}

	out := processed
	if filter != nil {
		out = make([]ProcessedGoal, 0, len(processed))
		for _, g := range processed {
			if filter.Match(g) {
				out = append(out, g)
			}
		}
	}

	// Ordinal comparison of the urgency key is the service's canonical
	// total order, with deadline segments already rewritten by
	// reconciliation.
	sort.Slice(out, func(i, j int) bool { return out[i].UrgencyKey < out[j].UrgencyKey })
	return out, nil
}

// needsRatchetCheck reports whether the goal was touched within the last
// day, in which case the lightweight autoratchet effect may be stale and
// the full projection is authoritative.
func (s *Service) needsRatchetCheck(g client.LightGoal, now time.Time) bool {
	return g.LastDatapoint != nil && now.Unix()-g.LastDatapoint.Timestamp < secondsPerDay
}

// process reconciles and classifies one snapshot. full is nil when only
// the lightweight projection is available.
func (s *Service) process(g client.LightGoal, full *client.FullGoal) ProcessedGoal {
	rec := ratchet.Reconcile(g)
	horizon := urgency.Classify(rec.LoseDate, s.now(), s.dayStart())

	pg := ProcessedGoal{
		Slug:            g.Slug,
		Title:           g.Title,
		UrgencyHorizon:  horizon,
		DueBy:           rec.DueBy,
		SafeDays:        rec.SafeDays,
		SafeBuf:         g.SafeBuf,
		RateDescription: fmt.Sprintf("%g %s/%s", g.Rate, g.GUnits, g.RUnits),
		CurrentValue:    g.CurVal,
		TargetValue:     g.GoalVal,
		UrgencyKey:      rec.Key.String(),
	}
	if full != nil {
		pg.Description = full.Fineprint
	}
	return pg
}

func (s *Service) dayStart() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.day.Offset(s.cfg.DayStart)
}
