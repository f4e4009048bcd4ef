package track

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"fundtrack/internal/application/port"
	"fundtrack/internal/domain/funding"
)

// refreshMinInterval throttles snapshot revaluation from the mark feed
// so a busy stream cannot dominate the loop.
const refreshMinInterval = 5 * time.Second

type ServiceDeps struct {
	Client  port.AccountClient
	Feed    port.MarkFeed // optional
	Repo    port.Repository
	Samples port.SampleLog
	Sink    port.Sink
	Session *funding.Session
	State   *State

	IntervalSec   int
	HourOffsetSec int // negative disables hour alignment
	PrintEveryMin int

	Now func() time.Time
}

// Service drives the sampling loop. It is the only writer of the
// Session and the State; feed ticks, schedule ticks and print ticks all
// funnel through one goroutine, so no aggregation state needs locking.
type Service struct {
	deps   ServiceDeps
	fmt    *Formatter
	marks  map[string]float64
	booted bool // first durable sample written
}

func NewService(deps ServiceDeps) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{
		deps:  deps,
		fmt:   NewFormatter(),
		marks: make(map[string]float64),
	}
}

func (s *Service) Run(ctx context.Context) error {
	if s.deps.Client == nil {
		return errors.New("no account client")
	}

	var feedCh <-chan port.MarkTick
	if s.deps.Feed != nil {
		ch, err := s.deps.Feed.Subscribe(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("mark feed unavailable, polling only")
		} else {
			feedCh = ch
			log.Info().Str("feed", s.deps.Feed.Name()).Msg("mark feed started")
		}
	}

	var printCh <-chan time.Time
	if s.deps.PrintEveryMin > 0 {
		printTicker := time.NewTicker(time.Duration(s.deps.PrintEveryMin) * time.Minute)
		defer printTicker.Stop()
		printCh = printTicker.C
	}

	// first sample immediately, then on schedule
	s.Tick(ctx, s.deps.Now())

	timer := time.NewTimer(s.nextDelay(s.deps.Now()))
	defer timer.Stop()

	var lastRefresh time.Time

	// Ticks run inline in this loop, so they never overlap: a slow poll
	// pushes the next schedule point out instead of stacking up.
	for {
		select {
		case <-ctx.Done():
			_ = s.deps.Sink.NewLine()
			return ctx.Err()

		case <-timer.C:
			s.Tick(ctx, s.deps.Now())
			timer.Reset(s.nextDelay(s.deps.Now()))

		case now := <-printCh:
			if snap, ok := s.deps.State.Snapshot(); ok {
				_ = s.deps.Sink.WriteSnapshot(now, s.fmt.Render(snap))
			}

		case t, ok := <-feedCh:
			if !ok {
				feedCh = nil
				continue
			}
			s.marks[t.Symbol] = t.Price
			if now := s.deps.Now(); now.Sub(lastRefresh) >= refreshMinInterval {
				s.refresh(now)
				lastRefresh = now
			}
		}
	}
}

// nextDelay returns the wait until the next scheduled tick: a fixed
// interval, or the next hh:MM:offset instant when hour alignment is on.
func (s *Service) nextDelay(now time.Time) time.Duration {
	if s.deps.HourOffsetSec >= 0 {
		next := now.Truncate(time.Hour).Add(time.Duration(s.deps.HourOffsetSec) * time.Second)
		if !next.After(now) {
			next = next.Add(time.Hour)
		}
		return next.Sub(now)
	}
	interval := s.deps.IntervalSec
	if interval <= 0 {
		interval = 300
	}
	return time.Duration(interval) * time.Second
}

// Tick runs one full sampling cycle: poll the account, ingest settled
// funding, aggregate, persist one Sample and publish the snapshot. A
// failed poll logs and skips the cycle; the session stays intact.
func (s *Service) Tick(ctx context.Context, now time.Time) {
	positions, err := s.deps.Client.Positions(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("position poll failed, skipping tick")
		return
	}
	equity, err := s.deps.Client.Equity(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("equity poll failed, skipping tick")
		return
	}

	rates, err := s.deps.Client.FundingRates(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("funding rate poll failed, skipping tick")
		return
	}
	for i := range positions {
		if q, ok := rates[positions[i].Instrument.Symbol]; ok {
			positions[i].Instrument.FundingRate = q.Rate
			positions[i].Instrument.PeriodHours = q.PeriodHours
		}
	}
	s.applyMarks(positions)

	// re-query from the watermark itself; the deduplicator absorbs the
	// boundary overlap
	since := s.deps.Session.Dedup.MaxWatermark()
	if since.IsZero() {
		since = s.deps.Session.Start
	}
	events, err := s.deps.Client.FundingEvents(ctx, since)
	if err != nil {
		log.Warn().Err(err).Msg("funding income poll failed, skipping tick")
		return
	}
	accepted := 0
	for _, ev := range events {
		if !s.deps.Session.ApplyEvent(ev, now) {
			continue
		}
		accepted++
		if err := s.deps.Repo.InsertEvent(ctx, ev); err != nil {
			log.Warn().Err(err).Str("symbol", ev.Symbol).Str("id", ev.ID).Msg("event persist failed")
		}
	}
	if accepted > 0 {
		log.Info().Int("events", accepted).Msg("settled funding ingested")
	}

	agg := funding.AggregateForecast(positions)
	stats := s.deps.Session.ComputeStats(now, equity, agg.GrossNotional)

	// one bootstrap sample, then only ticks that accepted new events
	// reach the durable log; the chart ring mirrors the durable stream
	durable := !s.booted || accepted > 0
	if durable {
		if err := s.deps.Samples.Append(stats.Sample()); err != nil {
			log.Error().Err(err).Msg("sample append failed")
			durable = false
		} else {
			s.booted = true
		}
	}

	snap := Snapshot{
		Time:      now,
		Equity:    equity,
		Positions: positions,
		Forecast:  agg,
		Stats:     stats,
	}
	if durable {
		s.deps.State.Publish(snap)
	} else {
		s.deps.State.Refresh(snap)
	}

	if payload, err := json.Marshal(snap); err == nil {
		if err := s.deps.Repo.InsertSnapshot(ctx, now.UnixMilli(), string(payload)); err != nil {
			log.Warn().Err(err).Msg("snapshot mirror failed")
		}
	}
}

// applyMarks overrides polled mark prices with fresher stream prices and
// recomputes the signed notionals.
func (s *Service) applyMarks(positions []funding.Position) {
	if len(s.marks) == 0 {
		return
	}
	for i := range positions {
		if px, ok := s.marks[positions[i].Instrument.Symbol]; ok && px > 0 {
			positions[i].Instrument.MarkPrice = px
			positions[i].Notional = positions[i].Quantity * px
		}
	}
}

// refresh revalues the last snapshot with streamed marks between polls.
// Counters and the realized window are untouched; only the book-derived
// aggregates move.
func (s *Service) refresh(now time.Time) {
	snap, ok := s.deps.State.Snapshot()
	if !ok {
		return
	}

	positions := make([]funding.Position, len(snap.Positions))
	copy(positions, snap.Positions)

	changed := false
	for i := range positions {
		px, ok := s.marks[positions[i].Instrument.Symbol]
		if !ok || px <= 0 || px == positions[i].Instrument.MarkPrice {
			continue
		}
		positions[i].Instrument.MarkPrice = px
		positions[i].Notional = positions[i].Quantity * px
		changed = true
	}
	if !changed {
		return
	}

	agg := funding.AggregateForecast(positions)
	stats := s.deps.Session.ComputeStats(now, snap.Equity, agg.GrossNotional)

	s.deps.State.Refresh(Snapshot{
		Time:      now,
		Equity:    snap.Equity,
		Positions: positions,
		Forecast:  agg,
		Stats:     stats,
	})
}
