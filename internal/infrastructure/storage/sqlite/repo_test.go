package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fundtrack/internal/domain/funding"
)

func TestSQLiteRepoInsertEvent(t *testing.T) {
	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	ev := funding.Event{
		Symbol: "BTCUSDT",
		ID:     "8801",
		Time:   time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		Amount: -1.25,
	}
	if err := repo.InsertEvent(ctx, ev); err != nil {
		t.Fatalf("InsertEvent failed: %v", err)
	}
	// same (symbol, event_id) again must be a silent no-op
	if err := repo.InsertEvent(ctx, ev); err != nil {
		t.Fatalf("duplicate InsertEvent failed: %v", err)
	}

	events, err := repo.EventsSince(ctx, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("EventsSince failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Amount != -1.25 || events[0].ID != "8801" {
		t.Errorf("event round trip mismatch: %+v", events[0])
	}
}

func TestSQLiteRepoEventsSinceOrdered(t *testing.T) {
	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 3; i >= 1; i-- {
		ev := funding.Event{
			Symbol: "ETHUSDT",
			ID:     string(rune('a' + i)),
			Time:   base.Add(time.Duration(i) * time.Hour),
			Amount: float64(i),
		}
		if err := repo.InsertEvent(ctx, ev); err != nil {
			t.Fatalf("InsertEvent failed: %v", err)
		}
	}

	events, err := repo.EventsSince(ctx, base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("EventsSince failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if !events[0].Time.Before(events[1].Time) {
		t.Error("events not returned oldest first")
	}
}

func TestSQLiteRepoInsertSnapshot(t *testing.T) {
	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	payload := `{"equity":1000,"net":-2}`
	if err := repo.InsertSnapshot(ctx, 1234567890, payload); err != nil {
		t.Fatalf("InsertSnapshot failed: %v", err)
	}
}

func TestSQLiteRepoReset(t *testing.T) {
	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	ev := funding.Event{Symbol: "BTCUSDT", ID: "1", Time: time.Now().UTC(), Amount: 1}
	repo.InsertEvent(ctx, ev)

	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	events, err := repo.EventsSince(ctx, time.Time{})
	if err != nil {
		t.Fatalf("EventsSince failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("reset left %d events", len(events))
	}
}
