package track

import (
	"testing"
	"time"

	"fundtrack/internal/domain/funding"
)

func TestStateNotReadyBeforeFirstPublish(t *testing.T) {
	st := NewState(10)
	if _, ok := st.Snapshot(); ok {
		t.Fatal("expected not ready before first publish")
	}
	if got := len(st.Chart()); got != 0 {
		t.Fatalf("expected empty chart, got %d points", got)
	}
}

func TestStatePublishAppendsChart(t *testing.T) {
	st := NewState(10)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	st.Publish(Snapshot{Time: base, Stats: funding.Stats{Net: 1.5}})
	st.Publish(Snapshot{Time: base.Add(time.Minute), Stats: funding.Stats{Net: 2.5}})

	snap, ok := st.Snapshot()
	if !ok {
		t.Fatal("expected ready after publish")
	}
	if snap.Stats.Net != 2.5 {
		t.Fatalf("expected latest net 2.5, got %v", snap.Stats.Net)
	}

	chart := st.Chart()
	if len(chart) != 2 {
		t.Fatalf("expected 2 chart points, got %d", len(chart))
	}
	if chart[0].Net != 1.5 || chart[1].Net != 2.5 {
		t.Fatalf("chart out of order: %+v", chart)
	}
}

func TestStateChartEvictsOldest(t *testing.T) {
	st := NewState(3)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		st.Publish(Snapshot{
			Time:  base.Add(time.Duration(i) * time.Minute),
			Stats: funding.Stats{Net: float64(i)},
		})
	}

	chart := st.Chart()
	if len(chart) != 3 {
		t.Fatalf("expected ring capped at 3, got %d", len(chart))
	}
	if chart[0].Net != 2 || chart[2].Net != 4 {
		t.Fatalf("expected points 2..4 retained, got %+v", chart)
	}
}

func TestStateRefreshDoesNotRecordChartPoint(t *testing.T) {
	st := NewState(10)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	st.Publish(Snapshot{Time: now, Equity: 100})
	st.Refresh(Snapshot{Time: now.Add(time.Second), Equity: 101})

	snap, _ := st.Snapshot()
	if snap.Equity != 101 {
		t.Fatalf("expected refreshed equity 101, got %v", snap.Equity)
	}
	if got := len(st.Chart()); got != 1 {
		t.Fatalf("expected refresh to leave chart at 1 point, got %d", got)
	}
}
