package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"fundtrack/internal/application/port"
	"fundtrack/internal/domain/funding"
)

// Repo publishes the latest live snapshot to Redis so dashboards and
// other processes can read it without touching this process. Events are
// not stored here; that is the sqlite/postgres repos' job.
type Repo struct {
	rdb       *redis.Client
	prefix    string
	ttl       time.Duration
	keyLatest string // prefix + ":latest"
	snapChan  string // prefix + ":snapshots:pub"
}

func New(rdb *redis.Client, prefix string, ttl time.Duration) *Repo {
	return &Repo{
		rdb:       rdb,
		prefix:    prefix,
		ttl:       ttl,
		keyLatest: prefix + ":latest",
		snapChan:  prefix + ":snapshots:pub",
	}
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	pipe := r.rdb.Pipeline()
	pipe.Set(ctx, r.keyLatest, payload, r.ttl)
	pipe.Publish(ctx, r.snapChan, payload)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Repo) InsertEvent(ctx context.Context, ev funding.Event) error {
	// events live in the durable repos only
	return nil
}

func (r *Repo) EventsSince(ctx context.Context, since time.Time) ([]funding.Event, error) {
	return nil, nil
}

func (r *Repo) Reset(ctx context.Context) error {
	return r.rdb.Del(ctx, r.keyLatest).Err()
}

func (r *Repo) Close() error { return r.rdb.Close() }

var _ port.Repository = (*Repo)(nil)
