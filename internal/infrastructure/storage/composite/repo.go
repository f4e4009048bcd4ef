package composite

import (
	"context"
	"time"

	"fundtrack/internal/application/port"
	"fundtrack/internal/domain/funding"
)

// Repo fans writes out to every configured backend. Reads come from the
// first backend that yields data, so sqlite (registered first) answers
// resume queries even when redis/postgres mirrors are attached.
type Repo struct {
	repos []port.Repository
}

func New(repos ...port.Repository) *Repo {
	out := make([]port.Repository, 0, len(repos))
	for _, r := range repos {
		if r != nil {
			out = append(out, r)
		}
	}
	return &Repo{repos: out}
}

func (r *Repo) InsertEvent(ctx context.Context, ev funding.Event) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.InsertEvent(ctx, ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) EventsSince(ctx context.Context, since time.Time) ([]funding.Event, error) {
	var firstErr error
	for _, repo := range r.repos {
		events, err := repo.EventsSince(ctx, since)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if len(events) > 0 {
			return events, nil
		}
	}
	return nil, firstErr
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.InsertSnapshot(ctx, ts, payload); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) Reset(ctx context.Context) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.Reset(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) Close() error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ port.Repository = (*Repo)(nil)
