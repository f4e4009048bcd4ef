package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"fundtrack/internal/application/port"
	"fundtrack/internal/domain/funding"
)

// Repo is the primary durable event log: every accepted funding event is
// recorded here so a resumed session can rebuild its dedup watermarks
// and realized window without re-polling the exchange.
type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

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
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  symbol TEXT NOT NULL,
  event_id TEXT NOT NULL,
  ts_ms INTEGER NOT NULL,
  amount REAL NOT NULL,
  created_at INTEGER NOT NULL,
  UNIQUE(symbol, event_id)
);
CREATE INDEX IF NOT EXISTS idx_funding_events_ts ON funding_events(ts_ms);
CREATE INDEX IF NOT EXISTS idx_funding_events_symbol ON funding_events(symbol);

CREATE TABLE IF NOT EXISTS snapshots (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts_ms INTEGER NOT NULL,
  payload TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts_ms);
`)
	return err
}

func (r *Repo) InsertEvent(ctx context.Context, ev funding.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO funding_events(symbol, event_id, ts_ms, amount, created_at)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(symbol, event_id) DO NOTHING
	`, ev.Symbol, ev.ID, ev.Time.UnixMilli(), ev.Amount, time.Now().UnixMilli())
	return err
}

func (r *Repo) EventsSince(ctx context.Context, since time.Time) ([]funding.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, event_id, ts_ms, amount FROM funding_events
		WHERE ts_ms >= ? ORDER BY ts_ms ASC, event_id ASC
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
	_, err := r.db.ExecContext(ctx, `INSERT INTO snapshots(ts_ms, payload, created_at) VALUES(?, ?, ?)`, ts, payload, ts)
	return err
}

func (r *Repo) Reset(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM funding_events; DELETE FROM snapshots;`)
	return err
}

var _ port.Repository = (*Repo)(nil)
