package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"fundtrack/internal/application/port"
	"fundtrack/internal/domain/funding"
)

// Repo mirrors the event log and snapshots into Postgres for deployments
// that want the data queryable off-box. Optional; sqlite stays the
// primary store for resume.
type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS funding_events (
  id BIGSERIAL PRIMARY KEY,
  symbol TEXT NOT NULL,
  event_id TEXT NOT NULL,
  ts_ms BIGINT NOT NULL,
  amount DOUBLE PRECISION NOT NULL,
  UNIQUE(symbol, event_id)
);
CREATE INDEX IF NOT EXISTS idx_funding_events_ts ON funding_events(ts_ms);

CREATE TABLE IF NOT EXISTS snapshots (
  id BIGSERIAL PRIMARY KEY,
  ts_ms BIGINT NOT NULL,
  payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts_ms);
`)
	return err
}

func (r *Repo) InsertEvent(ctx context.Context, ev funding.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO funding_events(symbol, event_id, ts_ms, amount)
		VALUES($1, $2, $3, $4)
		ON CONFLICT(symbol, event_id) DO NOTHING
	`, ev.Symbol, ev.ID, ev.Time.UnixMilli(), ev.Amount)
	return err
}

func (r *Repo) EventsSince(ctx context.Context, since time.Time) ([]funding.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, event_id, ts_ms, amount FROM funding_events
		WHERE ts_ms >= $1 ORDER BY ts_ms ASC, event_id ASC
	`, since.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []funding.Event
	for rows.Next() {
		var symbol, id string
		var ts int64
		var amount float64
		if err := rows.Scan(&symbol, &id, &ts, &amount); err != nil {
			return nil, err
		}
		events = append(events, funding.Event{
			Symbol: symbol,
			ID:     id,
			Time:   time.UnixMilli(ts).UTC(),
			Amount: amount,
		})
	}
	return events, rows.Err()
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO snapshots(ts_ms, payload) VALUES($1, $2)`, ts, payload)
	return err
}

func (r *Repo) Reset(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `TRUNCATE funding_events, snapshots`)
	return err
}

var _ port.Repository = (*Repo)(nil)
