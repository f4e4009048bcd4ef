package websocket

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

// RetryConfig bounds the reconnect backoff for streaming connections.
type RetryConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

var DefaultRetryConfig = RetryConfig{
	InitialDelay: 500 * time.Millisecond,
	MaxDelay:     10 * time.Second,
}

// Backoff yields exponentially growing reconnect delays up to the
// configured cap. Not safe for concurrent use; one per connection loop.
type Backoff struct {
	cfg   RetryConfig
	delay time.Duration
}

func NewBackoff(cfg RetryConfig) *Backoff {
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = DefaultRetryConfig.InitialDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultRetryConfig.MaxDelay
	}
	return &Backoff{cfg: cfg, delay: cfg.InitialDelay}
}

// Next returns the delay to wait before the next attempt and advances
// the schedule.
func (b *Backoff) Next() time.Duration {
	d := b.delay
	b.delay *= 2
	if b.delay > b.cfg.MaxDelay {
		b.delay = b.cfg.MaxDelay
	}
	return d
}

// Reset rewinds the schedule after a successful connection.
func (b *Backoff) Reset() {
	b.delay = b.cfg.InitialDelay
}

// Dial opens one websocket connection honoring ctx cancellation.
func Dial(ctx context.Context, url string) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	return conn, err
}

// Wait sleeps for d or until ctx is cancelled. Returns false on cancel.
func Wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
