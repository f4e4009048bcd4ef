package track

import (
	"sync"
	"time"

	"fundtrack/internal/domain/funding"
)

// Snapshot is the full published view of one accepted tick. The sampling
// loop builds a fresh value each cycle and swaps it in; readers always
// see a complete, internally consistent snapshot.
type Snapshot struct {
	Time      time.Time                 `json:"time"`
	Equity    float64                   `json:"equity"`
	Positions []funding.Position        `json:"positions"`
	Forecast  funding.ForecastAggregate `json:"forecast"`
	Stats     funding.Stats             `json:"stats"`
}

// ChartPoint is the trimmed-down per-tick record kept in memory for the
// chart endpoint.
type ChartPoint struct {
	Time       time.Time      `json:"time"`
	Net        float64        `json:"net"`
	DailyNet   float64        `json:"dailyNet"`
	DailyYield funding.Metric `json:"dailyYield"`
}

const DefaultChartPoints = 120

// State is the shared cell between the single-writer sampling loop and
// concurrent readers (web handlers, console). Only Publish mutates it.
type State struct {
	mu    sync.RWMutex
	snap  Snapshot
	ready bool

	chart    []ChartPoint
	chartCap int
}

func NewState(chartPoints int) *State {
	if chartPoints <= 0 {
		chartPoints = DefaultChartPoints
	}
	return &State{
		chart:    make([]ChartPoint, 0, chartPoints),
		chartCap: chartPoints,
	}
}

// Publish replaces the live snapshot and appends its chart point,
// evicting the oldest point once the ring is full.
func (s *State) Publish(snap Snapshot) {
	point := ChartPoint{
		Time:       snap.Time,
		Net:        snap.Stats.Net,
		DailyNet:   snap.Stats.DailyNet,
		DailyYield: snap.Stats.DailyYield,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = snap
	s.ready = true

	if len(s.chart) == s.chartCap {
		copy(s.chart, s.chart[1:])
		s.chart = s.chart[:len(s.chart)-1]
	}
	s.chart = append(s.chart, point)
}

// Refresh replaces the live snapshot without recording a chart point.
// Used for mark-price updates between polls, which revalue the book but
// are not accepted ticks.
func (s *State) Refresh(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.ready = true
}

// Snapshot returns the latest published view. ok is false until the
// first tick completes.
func (s *State) Snapshot() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.ready
}

// Chart returns a copy of the retained chart points, oldest first.
func (s *State) Chart() []ChartPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ChartPoint, len(s.chart))
	copy(out, s.chart)
	return out
}
