package binance

import (
	"context"
	"time"

	"fundtrack/internal/application/port"
	"fundtrack/internal/domain/funding"
)

// Client bundles the typed REST clients behind the application's
// AccountClient port.
type Client struct {
	mgr *AccountManager
}

func NewClient(apiKey, apiSecret, baseURL string, recvWindowMs int) *Client {
	return &Client{mgr: NewAccountManager(apiKey, apiSecret, baseURL, recvWindowMs)}
}

// SyncClock primes the request clock before the first signed call.
func (c *Client) SyncClock(ctx context.Context) error {
	return c.mgr.Account.Clock().Sync(ctx)
}

func (c *Client) Positions(ctx context.Context) ([]funding.Position, error) {
	return c.mgr.Account.Positions(ctx)
}

func (c *Client) Equity(ctx context.Context) (float64, error) {
	return c.mgr.Account.Equity(ctx)
}

func (c *Client) FundingEvents(ctx context.Context, since time.Time) ([]funding.Event, error) {
	return c.mgr.Funding.FundingEvents(ctx, since)
}

func (c *Client) FundingRates(ctx context.Context) (map[string]funding.RateQuote, error) {
	return c.mgr.Funding.FundingRates(ctx)
}

var _ port.AccountClient = (*Client)(nil)
