package funding

import (
	"math"
	"time"
)

// Session owns all mutable aggregation state for one tracking run: the
// cumulative received/paid counters, the realized window, and the dedup
// watermarks. Exactly one Session exists per process and only the
// sampling loop touches it.
type Session struct {
	Start    time.Time
	Received float64
	Paid     float64

	Window *RealizedWindow
	Dedup  *Deduplicator
}

func NewSession(start time.Time, windowHours float64) *Session {
	return &Session{
		Start:  start,
		Window: NewRealizedWindow(windowHours),
		Dedup:  NewDeduplicator(),
	}
}

// ApplyEvent routes one observed funding event through the deduplicator
// and, when new, into the cumulative counters and the realized window.
// Duplicates are absorbed silently and change nothing.
func (s *Session) ApplyEvent(ev Event, now time.Time) bool {
	if !s.Dedup.Accept(ev) {
		return false
	}
	if ev.Amount >= 0 {
		s.Received += ev.Amount
	} else {
		s.Paid -= ev.Amount
	}
	s.Window.Add(ev.Time, ev.Amount, now)
	return true
}

// Rehydrate replays previously accepted events (oldest first) into the
// dedup watermarks and the realized window without touching the
// cumulative counters, which resume from the durable log instead.
func (s *Session) Rehydrate(events []Event, now time.Time) int {
	n := 0
	for _, ev := range events {
		if !s.Dedup.Accept(ev) {
			continue
		}
		s.Window.Add(ev.Time, ev.Amount, now)
		n++
	}
	return n
}

func (s *Session) Net() float64 { return s.Received - s.Paid }

// Stats is the point-in-time derived view of a Session combined with the
// latest equity and book aggregates. Every division guards its zero
// denominator with an undefined Metric.
type Stats struct {
	Time          time.Time
	Equity        float64
	GrossNotional float64
	Leverage      Metric

	Received float64
	Paid     float64
	Net      float64

	AvgHourlyRealized   float64
	WindowCoverageHours float64
	DailyNet            float64
	MonthlyNet          float64
	AnnualNet           float64

	DailyYield   Metric
	MonthlyYield Metric
	AnnualYield  Metric
}

// ComputeStats derives the externally visible metrics without replaying
// any history: everything comes from the running aggregates.
func (s *Session) ComputeStats(now time.Time, equity, grossNotional float64) Stats {
	avg, coverage := s.Window.AvgHourly(now, s.Start)
	daily := Daily(avg)

	st := Stats{
		Time:                now,
		Equity:              equity,
		GrossNotional:       grossNotional,
		Received:            s.Received,
		Paid:                s.Paid,
		Net:                 s.Net(),
		AvgHourlyRealized:   avg,
		WindowCoverageHours: coverage,
		DailyNet:            daily,
		MonthlyNet:          daily * 30,
		AnnualNet:           daily * 365,
	}

	if equity > 0 {
		st.Leverage = DefinedMetric(math.Abs(grossNotional) / equity)
	}
	if grossNotional > 0 {
		dy := daily / grossNotional
		st.DailyYield = DefinedMetric(dy)
		st.MonthlyYield = DefinedMetric(dy * 30)
		st.AnnualYield = DefinedMetric(dy * 365)
	}
	return st
}

// Sample freezes the stats into one durable record.
func (st Stats) Sample() Sample {
	return Sample{
		Time:          st.Time,
		Equity:        st.Equity,
		GrossNotional: st.GrossNotional,
		Leverage:      st.Leverage,
		Received:      st.Received,
		Paid:          st.Paid,
		Net:           st.Net,
		DailyNet:      st.DailyNet,
		MonthlyNet:    st.MonthlyNet,
		AnnualNet:     st.AnnualNet,
		DailyYield:    st.DailyYield,
		MonthlyYield:  st.MonthlyYield,
		AnnualYield:   st.AnnualYield,
	}
}
