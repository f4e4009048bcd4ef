package funding

import (
	"math"
	"testing"
	"time"
)

func TestWindowCoverageYoungSession(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	w := NewRealizedWindow(24)

	// one $5 event per hour for 10 hours
	for i := 1; i <= 10; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		w.Add(ts, 5, ts)
	}

	now := start.Add(10 * time.Hour)
	avg, coverage := w.AvgHourly(now, start)
	if coverage != 10 {
		t.Fatalf("coverage = %v, want 10 (not the full 24)", coverage)
	}
	if math.Abs(avg-5) > 1e-12 {
		t.Fatalf("avg hourly realized = %v, want 5", avg)
	}
}

func TestWindowEvictsOldEntries(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	w := NewRealizedWindow(24)

	w.Add(start, 100, start)
	// 30h later a new event arrives; the old one must fall out on insert
	later := start.Add(30 * time.Hour)
	w.Add(later, 7, later)

	if w.Len() != 1 {
		t.Fatalf("entries = %d, want 1 after eviction", w.Len())
	}
	if w.Sum() != 7 {
		t.Fatalf("sum = %v, want 7", w.Sum())
	}
}

func TestWindowEmptyIsDefinedZero(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	w := NewRealizedWindow(24)

	avg, coverage := w.AvgHourly(start.Add(3*time.Hour), start)
	if avg != 0 {
		t.Fatalf("empty window avg = %v, want 0", avg)
	}
	if coverage != 3 {
		t.Fatalf("coverage = %v, want 3", coverage)
	}
}

func TestWindowCoverageCapsAtWindow(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	w := NewRealizedWindow(24)

	now := start.Add(100 * time.Hour)
	w.Add(now.Add(-time.Hour), 12, now)

	avg, coverage := w.AvgHourly(now, start)
	if coverage != 24 {
		t.Fatalf("coverage = %v, want 24", coverage)
	}
	if math.Abs(avg-0.5) > 1e-12 {
		t.Fatalf("avg = %v, want 0.5", avg)
	}
}
