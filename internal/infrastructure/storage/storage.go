package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"fundtrack/internal/application/port"
	"fundtrack/internal/domain/funding"
)

// InMemoryRepo is a simple in-memory Repository, used by tests and as a
// fallback when no durable backend is configured. Resume across process
// restarts obviously does not survive it.
type InMemoryRepo struct {
	mu        sync.Mutex
	events    []funding.Event
	seen      map[string]struct{} // symbol + "\x00" + event id
	snapshots []string
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{seen: make(map[string]struct{})}
}

func (r *InMemoryRepo) InsertEvent(ctx context.Context, ev funding.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ev.Symbol + "\x00" + ev.ID
	if _, dup := r.seen[key]; dup {
		return nil
	}
	r.seen[key] = struct{}{}
	r.events = append(r.events, ev)
	return nil
}

func (r *InMemoryRepo) EventsSince(ctx context.Context, since time.Time) ([]funding.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []funding.Event
	for _, ev := range r.events {
		if !ev.Time.Before(since) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time.Equal(out[j].Time) {
			return out[i].ID < out[j].ID
		}
		return out[i].Time.Before(out[j].Time)
	})
	return out, nil
}

func (r *InMemoryRepo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, payload)
	return nil
}

func (r *InMemoryRepo) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.snapshots = nil
	r.seen = make(map[string]struct{})
	return nil
}

func (r *InMemoryRepo) Close() error { return nil }

// SnapshotCount reports how many snapshot payloads were mirrored.
func (r *InMemoryRepo) SnapshotCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

var _ port.Repository = (*InMemoryRepo)(nil)
