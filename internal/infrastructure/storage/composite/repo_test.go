package composite

import (
	"context"
	"testing"
	"time"

	"fundtrack/internal/domain/funding"
	"fundtrack/internal/infrastructure/storage"
)

func event(symbol, id string, ts time.Time) funding.Event {
	return funding.Event{Symbol: symbol, Time: ts, ID: id, Amount: 1}
}

func TestInsertFansOutToAllBackends(t *testing.T) {
	a := storage.NewInMemoryRepo()
	b := storage.NewInMemoryRepo()
	repo := New(a, b)
	ctx := context.Background()

	ts := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if err := repo.InsertEvent(ctx, event("BTCUSDT", "1", ts)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.InsertSnapshot(ctx, ts.UnixMilli(), "{}"); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	for i, backend := range []*storage.InMemoryRepo{a, b} {
		events, err := backend.EventsSince(ctx, time.Time{})
		if err != nil || len(events) != 1 {
			t.Fatalf("backend %d: expected 1 event, got %d (err=%v)", i, len(events), err)
		}
		if backend.SnapshotCount() != 1 {
			t.Fatalf("backend %d: expected 1 snapshot", i)
		}
	}
}

func TestEventsSinceReadsFirstNonEmptyBackend(t *testing.T) {
	empty := storage.NewInMemoryRepo()
	full := storage.NewInMemoryRepo()
	ctx := context.Background()

	ts := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if err := full.InsertEvent(ctx, event("ETHUSDT", "9", ts)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	repo := New(empty, full)
	events, err := repo.EventsSince(ctx, time.Time{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(events) != 1 || events[0].Symbol != "ETHUSDT" {
		t.Fatalf("expected the populated backend to answer, got %+v", events)
	}
}

func TestResetClearsAllBackends(t *testing.T) {
	a := storage.NewInMemoryRepo()
	b := storage.NewInMemoryRepo()
	repo := New(a, b)
	ctx := context.Background()

	ts := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	_ = repo.InsertEvent(ctx, event("BTCUSDT", "1", ts))
	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	events, _ := a.EventsSince(ctx, time.Time{})
	if len(events) != 0 {
		t.Fatalf("expected reset to clear events, got %d", len(events))
	}
}

func TestNilBackendsSkipped(t *testing.T) {
	repo := New(nil, storage.NewInMemoryRepo(), nil)
	if err := repo.InsertEvent(context.Background(), event("BTCUSDT", "1", time.Now())); err != nil {
		t.Fatalf("insert with nil backends: %v", err)
	}
}
